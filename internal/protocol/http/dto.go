package http

import (
	"time"

	"github.com/devspace/rickterm/internal/core"
)

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type characterDTO struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Species  string        `json:"species"`
	Type     string        `json:"type"`
	Gender   string        `json:"gender"`
	Origin   namedResource `json:"origin"`
	Location namedResource `json:"location"`
	Image    string        `json:"image"`
	Episode  []string      `json:"episode"`
	URL      string        `json:"url"`
	Created  time.Time     `json:"created"`
}

type pageInfoDTO struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

type listResponse struct {
	Info    pageInfoDTO    `json:"info"`
	Results []characterDTO `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (d characterDTO) toCharacter() core.Character {
	return core.Character{
		ID:       d.ID,
		Name:     d.Name,
		ImageURL: d.Image,
		Species:  d.Species,
	}
}

func (d characterDTO) toDetail() core.CharacterDetail {
	return core.CharacterDetail{
		ID:       d.ID,
		Name:     d.Name,
		Status:   d.Status,
		Species:  d.Species,
		Type:     d.Type,
		Gender:   d.Gender,
		Origin:   d.Origin.Name,
		Location: d.Location.Name,
		ImageURL: d.Image,
		Episodes: len(d.Episode),
		Created:  d.Created,
	}
}

func (r listResponse) toPage() core.CharacterPage {
	chars := make([]core.Character, 0, len(r.Results))
	for _, dto := range r.Results {
		chars = append(chars, dto.toCharacter())
	}

	info := core.PageInfo{Count: r.Info.Count, Pages: r.Info.Pages}
	if r.Info.Next != nil {
		info.Next = *r.Info.Next
	}
	if r.Info.Prev != nil {
		info.Prev = *r.Info.Prev
	}

	return core.CharacterPage{Info: info, Characters: chars}
}
