package testserver

import (
	"fmt"
	"image/color"
	"net/http"
	"strconv"
	"strings"
)

// Character is a character record in API form.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   Place    `json:"origin"`
	Location Place    `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Place is a named origin or location reference.
type Place struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Characters returns the default fixture set.
func Characters() []Character {
	return []Character{
		{ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male",
			Origin: Place{Name: "Earth (C-137)"}, Location: Place{Name: "Citadel of Ricks"},
			Episode: []string{"1", "2", "3", "4"}, Created: "2017-11-04T18:48:46.250Z"},
		{ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male",
			Origin: Place{Name: "unknown"}, Location: Place{Name: "Citadel of Ricks"},
			Episode: []string{"1", "2"}, Created: "2017-11-04T18:50:21.651Z"},
		{ID: 3, Name: "Summer Smith", Status: "Alive", Species: "Human", Gender: "Female",
			Origin: Place{Name: "Earth (Replacement Dimension)"}, Location: Place{Name: "Earth (Replacement Dimension)"},
			Episode: []string{"6"}, Created: "2017-11-04T19:09:56.428Z"},
		{ID: 4, Name: "Beth Smith", Status: "Alive", Species: "Human", Gender: "Female",
			Origin: Place{Name: "Earth (Replacement Dimension)"}, Location: Place{Name: "Earth (Replacement Dimension)"},
			Episode: []string{"6"}, Created: "2017-11-04T19:22:43.665Z"},
		{ID: 5, Name: "Jerry Smith", Status: "Alive", Species: "Human", Gender: "Male",
			Origin: Place{Name: "Earth (Replacement Dimension)"}, Location: Place{Name: "Earth (Replacement Dimension)"},
			Episode: []string{"6"}, Created: "2017-11-04T19:26:56.301Z"},
		{ID: 6, Name: "Abadango Cluster Princess", Status: "Alive", Species: "Alien", Gender: "Female",
			Origin: Place{Name: "Abadango"}, Location: Place{Name: "Abadango"},
			Episode: []string{"27"}, Created: "2017-11-04T19:50:28.250Z"},
		{ID: 7, Name: "Abradolf Lincler", Status: "unknown", Species: "Human", Type: "Genetic experiment", Gender: "Male",
			Origin: Place{Name: "Earth (Replacement Dimension)"}, Location: Place{Name: "Testicle Monster Dimension"},
			Episode: []string{"10", "11"}, Created: "2017-11-04T19:59:20.523Z"},
	}
}

// APIOptions configures NewAPI.
type APIOptions struct {
	Characters []Character
	PageSize   int
	// Overrides replaces the handler of a path such as "/api/character/2".
	Overrides map[string]http.HandlerFunc
}

// NewAPI starts a fake character API. Image URLs point back at the server.
func NewAPI(opts APIOptions) *Server {
	if opts.Characters == nil {
		opts.Characters = Characters()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}

	api := &fakeAPI{opts: opts}
	routes := map[string]http.HandlerFunc{
		"/api/character":  api.list,
		"/api/character/": api.detail,
		"/api/avatar/":    Handlers{}.Avatar(color.RGBA{R: 151, G: 206, B: 76, A: 255}),
	}
	for path, h := range opts.Overrides {
		routes[path] = h
	}

	s := New(routes)
	api.base = s.URL
	return s
}

type fakeAPI struct {
	opts APIOptions
	base string
}

func (a *fakeAPI) withURLs(c Character) Character {
	c.Image = fmt.Sprintf("%s/api/avatar/%d.jpeg", a.base, c.ID)
	c.URL = fmt.Sprintf("%s/api/character/%d", a.base, c.ID)
	return c
}

func (a *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.ToLower(q.Get("name"))
	species := strings.ToLower(q.Get("species"))

	var matched []Character
	for _, c := range a.opts.Characters {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
			continue
		}
		if species != "" && strings.ToLower(c.Species) != species {
			continue
		}
		matched = append(matched, a.withURLs(c))
	}
	if len(matched) == 0 {
		writeError(w, http.StatusNotFound, "There is nothing here")
		return
	}

	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, http.StatusNotFound, "There is nothing here")
			return
		}
		page = n
	}
	pages := (len(matched) + a.opts.PageSize - 1) / a.opts.PageSize
	if page > pages {
		writeError(w, http.StatusNotFound, "There is nothing here")
		return
	}

	start := (page - 1) * a.opts.PageSize
	end := min(start+a.opts.PageSize, len(matched))

	var next, prev *string
	if page < pages {
		q.Set("page", strconv.Itoa(page+1))
		u := a.base + "/api/character?" + q.Encode()
		next = &u
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page-1))
		u := a.base + "/api/character?" + q.Encode()
		prev = &u
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"info": map[string]any{
			"count": len(matched),
			"pages": pages,
			"next":  next,
			"prev":  prev,
		},
		"results": matched[start:end],
	})
}

func (a *fakeAPI) detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/character/"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Hey! you must provide an id")
		return
	}
	for _, c := range a.opts.Characters {
		if c.ID == id {
			writeJSON(w, http.StatusOK, a.withURLs(c))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Character not found")
}
