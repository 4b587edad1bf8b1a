package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/logger"
	"github.com/devspace/rickterm/internal/state"
	"github.com/devspace/rickterm/internal/theme"
	"github.com/devspace/rickterm/internal/tui"
	"github.com/devspace/rickterm/internal/tui/components"
	"github.com/devspace/rickterm/internal/tui/vim"
)

// Screen identifies which screen is shown.
type Screen int

const (
	ScreenGrid Screen = iota
	ScreenDetail
)

func (s Screen) String() string {
	if s == ScreenDetail {
		return "detail"
	}
	return "grid"
}

// notificationTTL is how long a notification stays in the status bar.
const notificationTTL = 2 * time.Second

// Messages

// ListStateMsg carries a state published by the list controller.
type ListStateMsg struct{ State state.ListState }

// DetailStateMsg carries a state published by the detail controller.
type DetailStateMsg struct{ State state.DetailState }

// ArtworkMsg carries a decoded avatar. OK is false when it could not be
// fetched or decoded.
type ArtworkMsg struct {
	URL     string
	Artwork theme.Artwork
	OK      bool
}

// FavoriteToggledMsg reports the outcome of a favorite toggle.
type FavoriteToggledMsg struct {
	Character core.Character
	Err       error
}

// opDoneMsg reports that a controller operation returned. Its outcome has
// already been published as state.
type opDoneMsg struct {
	op  string
	err error
}

// clearNotificationMsg is sent to clear the notification.
type clearNotificationMsg struct{ id int }

// Option configures an App.
type Option func(*App)

// WithImages sets the source for avatar bytes. Without it cards render
// plain color blocks.
func WithImages(f theme.Fetcher) Option {
	return func(a *App) { a.images = f }
}

// WithArtworkCache shares a swatch cache between sessions.
func WithArtworkCache(c *theme.Cache) Option {
	return func(a *App) { a.artwork = c }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km *vim.KeyMap) Option {
	return func(a *App) { a.keys = km }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(a *App) { a.copy = write }
}

// WithContext sets the parent context of controller operations.
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.parent = ctx }
}

// App is the root view. It routes between the character grid and the
// detail screen and turns controller states into rendered screens.
type App struct {
	list   *state.ListController
	detail *state.DetailController
	images theme.Fetcher

	artwork *theme.Cache
	pending map[string]bool
	log     *logger.Logger
	keys    *vim.KeyMap
	modes   *vim.ModeManager
	seq     *vim.KeySequenceHandler
	copy    func(string) error

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	listCh       <-chan state.ListState
	detailCh     <-chan state.DetailState
	unsubscribes []func()

	grid     *components.CharacterGrid
	panel    *components.DetailPanel
	loading  components.LoadingView
	filter   textinput.Model
	spinning bool

	listState   state.ListState
	detailState state.DetailState
	screen      Screen

	width        int
	height       int
	notification string
	notifyID     int
	quitting     bool
}

// NewApp creates the root view and subscribes to both controllers.
func NewApp(list *state.ListController, detail *state.DetailController, opts ...Option) *App {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "name or species:Human"
	filter.CharLimit = 64

	a := &App{
		list:        list,
		detail:      detail,
		pending:     make(map[string]bool),
		keys:        vim.DefaultKeyMap(),
		modes:       vim.NewModeManager(),
		seq:         vim.NewKeySequenceHandler(),
		copy:        clipboard.WriteAll,
		parent:      context.Background(),
		grid:        components.NewCharacterGrid(),
		panel:       components.NewDetailPanel(),
		loading:     components.NewLoadingView(),
		filter:      filter,
		listState:   list.State(),
		detailState: detail.State(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.artwork == nil {
		a.artwork = theme.NewCache()
	}
	a.seq.Register("gg", vim.ActionTop)
	a.grid.Focus()

	a.ctx, a.cancel = context.WithCancel(a.parent)
	listCh, cancelList := list.Subscribe()
	detailCh, cancelDetail := detail.Subscribe()
	a.listCh, a.detailCh = listCh, detailCh
	a.unsubscribes = []func(){cancelList, cancelDetail}
	return a
}

// Init starts listening to the controllers and loads the first page.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		waitForList(a.listCh),
		waitForDetail(a.detailCh),
		a.run("load", a.list.LoadAll),
		a.startSpinner(),
	)
}

// Close cancels in-flight operations and subscriptions.
func (a *App) Close() {
	a.cancel()
	for _, unsubscribe := range a.unsubscribes {
		unsubscribe()
	}
	a.unsubscribes = nil
}

func waitForList(ch <-chan state.ListState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return ListStateMsg{State: s}
	}
}

func waitForDetail(ch <-chan state.DetailState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return DetailStateMsg{State: s}
	}
}

// run executes a blocking controller operation off the update loop.
func (a *App) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case ListStateMsg:
		return a, tea.Batch(waitForList(a.listCh), a.applyListState(msg.State))

	case DetailStateMsg:
		return a, tea.Batch(waitForDetail(a.detailCh), a.applyDetailState(msg.State))

	case ArtworkMsg:
		delete(a.pending, msg.URL)
		a.grid.SetArtwork(msg.URL, msg.Artwork, msg.OK)
		a.panel.SetArtwork(msg.URL, msg.Artwork, msg.OK)
		return a, nil

	case FavoriteToggledMsg:
		return a, a.favoriteToggled(msg)

	case opDoneMsg:
		if msg.err != nil {
			a.log.With("op", msg.op).Debug(msg.err.Error())
		}
		return a, nil

	case spinner.TickMsg:
		if !a.isLoading() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.loading, cmd = a.loading.Update(msg)
		return a, cmd

	case clearNotificationMsg:
		if msg.id == a.notifyID {
			a.notification = ""
		}
		return a, nil
	}

	if a.modes.IsFilter() {
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) applyListState(s state.ListState) tea.Cmd {
	a.listState = s
	switch s.Status {
	case state.StatusLoaded:
		a.grid.SetCharacters(s.Characters)
		a.grid.SetTitle(listTitle(s))
		if a.screen == ScreenDetail {
			if c, ok := s.Find(a.panel.Character().ID); ok {
				a.panel.SetFavorite(c.IsFavorite)
			}
		}
		return a.requestVisibleArtwork()
	case state.StatusLoading:
		return a.startSpinner()
	}
	return nil
}

func (a *App) applyDetailState(s state.DetailState) tea.Cmd {
	a.detailState = s
	switch s.Status {
	case state.StatusLoaded:
		a.panel.SetCharacter(s.Character)
		if c, ok := a.listState.Find(s.Character.ID); ok {
			a.panel.SetFavorite(c.IsFavorite)
		}
		return a.requestArtwork(s.Character.ImageURL)
	case state.StatusLoading:
		return a.startSpinner()
	}
	return nil
}

func listTitle(s state.ListState) string {
	title := "Characters"
	if s.FavoritesOnly {
		title = "Favorites"
	}
	if !s.Filter.IsZero() {
		title += " · " + s.Filter.String()
	}
	return title
}

func (a *App) favoriteToggled(msg FavoriteToggledMsg) tea.Cmd {
	if msg.Err != nil {
		a.log.With("character_id", msg.Character.ID).Warn(msg.Err, "favorite toggle failed")
		return a.notify("✗ Could not save favorite")
	}
	if a.panel.Character().ID == msg.Character.ID {
		a.panel.SetFavorite(msg.Character.IsFavorite)
	}
	if msg.Character.IsFavorite {
		return a.notify(fmt.Sprintf("%s Added %s to favorites", components.FavoriteMark, msg.Character.Name))
	}
	return a.notify(fmt.Sprintf("Removed %s from favorites", msg.Character.Name))
}

func (a *App) notify(text string) tea.Cmd {
	a.notifyID++
	id := a.notifyID
	a.notification = text
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return clearNotificationMsg{id: id}
	})
}

func (a *App) isLoading() bool {
	if a.screen == ScreenDetail {
		return a.detailState.Status == state.StatusLoading || a.detailState.Status == state.StatusIdle
	}
	return a.listState.Status == state.StatusLoading || a.listState.Status == state.StatusIdle
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.loading.Tick()
}

// requestVisibleArtwork fetches avatars for the cards on screen.
func (a *App) requestVisibleArtwork() tea.Cmd {
	var cmds []tea.Cmd
	for _, c := range a.grid.Visible() {
		if cmd := a.requestArtwork(c.ImageURL); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) requestArtwork(url string) tea.Cmd {
	if url == "" || a.images == nil || a.pending[url] || a.grid.HasArtwork(url) {
		return nil
	}
	if art, ok, found := a.artwork.Get(url); found {
		a.grid.SetArtwork(url, art, ok)
		a.panel.SetArtwork(url, art, ok)
		return nil
	}

	a.pending[url] = true
	ctx, images, cache, log := a.ctx, a.images, a.artwork, a.log
	return func() tea.Msg {
		art, ok := theme.FromURL(ctx, images, url, log)
		cache.Put(url, art, ok)
		return ArtworkMsg{URL: url, Artwork: art, OK: ok}
	}
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	mode := a.modes.Current()

	if mode == vim.ModeFilter {
		switch a.keys.Lookup(mode, msg) {
		case vim.ActionQuit:
			return a, a.quit()
		case vim.ActionBack:
			a.filter.Blur()
			a.modes.SetMode(vim.ModeNormal)
			return a, nil
		case vim.ActionOpen:
			return a, a.applyFilter()
		}
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		return a, cmd
	}

	if mode == vim.ModeNormal && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if (r >= '1' && r <= '9') || (r == '0' && a.modes.HasCount()) {
			a.modes.AppendCount(int(r - '0'))
			return a, nil
		}
		if r == 'g' || a.seq.Buffer() != "" {
			result := a.seq.Handle(string(r))
			switch result.Status {
			case vim.SequencePending:
				return a, nil
			case vim.SequenceComplete:
				return a, a.perform(result.Action)
			}
		}
	}

	return a, a.perform(a.keys.Lookup(mode, msg))
}

func (a *App) perform(action vim.Action) tea.Cmd {
	count := a.modes.Count()
	a.modes.ResetCount()

	switch action {
	case vim.ActionUp:
		return a.move(tui.NavUp, count)
	case vim.ActionDown:
		return a.move(tui.NavDown, count)
	case vim.ActionLeft:
		return a.move(tui.NavLeft, count)
	case vim.ActionRight:
		return a.move(tui.NavRight, count)
	case vim.ActionTop:
		return a.move(tui.NavFirst, 1)
	case vim.ActionBottom:
		return a.move(tui.NavLast, 1)

	case vim.ActionOpen:
		return a.openSelected()

	case vim.ActionBack:
		if a.modes.Current() == vim.ModeHelp {
			a.modes.Restore()
			return nil
		}
		return a.back()

	case vim.ActionToggleFavorite:
		return a.toggleFavorite()

	case vim.ActionFavoritesOnly:
		a.list.ShowFavoritesOnly()
		return nil

	case vim.ActionShowAll:
		a.list.ShowAll()
		return nil

	case vim.ActionFilter:
		a.modes.SetMode(vim.ModeFilter)
		a.filter.SetValue(a.listState.Filter.String())
		a.filter.CursorEnd()
		return a.filter.Focus()

	case vim.ActionReload:
		return a.run("reload", a.list.Reload)

	case vim.ActionLoadMore:
		if !a.listState.Page.HasNext() {
			return a.notify("No more characters")
		}
		return a.run("load more", a.list.LoadMore)

	case vim.ActionCopy:
		return a.copySelected()

	case vim.ActionHelp:
		a.modes.SetMode(vim.ModeHelp)
		return nil

	case vim.ActionQuit:
		return a.quit()
	}
	return nil
}

func (a *App) move(dir tui.NavDirection, count int) tea.Cmd {
	if a.screen != ScreenGrid || a.listState.Status != state.StatusLoaded {
		return nil
	}
	a.grid.Update(tui.NavigateMsg{Direction: dir, Count: count})
	return a.requestVisibleArtwork()
}

func (a *App) openSelected() tea.Cmd {
	if a.listState.Status != state.StatusLoaded {
		return nil
	}
	c, ok := a.grid.Selected()
	if !ok {
		return nil
	}
	a.screen = ScreenDetail
	a.modes.SetMode(vim.ModeDetail)
	a.detailState = state.DetailLoading()
	a.panel.SetCharacter(core.CharacterDetail{ID: c.ID, Name: c.Name, Species: c.Species, ImageURL: c.ImageURL})
	a.panel.SetFavorite(c.IsFavorite)

	id := c.ID
	return tea.Batch(
		a.run("detail", func(ctx context.Context) error { return a.detail.LoadDetail(ctx, id) }),
		a.startSpinner(),
	)
}

func (a *App) back() tea.Cmd {
	if a.screen != ScreenDetail {
		return nil
	}
	a.screen = ScreenGrid
	a.modes.SetMode(vim.ModeNormal)
	return tea.Batch(a.run("clear detail", a.detail.Clear), a.requestVisibleArtwork())
}

func (a *App) toggleFavorite() tea.Cmd {
	var c core.Character
	switch a.screen {
	case ScreenGrid:
		if a.listState.Status != state.StatusLoaded {
			return nil
		}
		selected, ok := a.grid.Selected()
		if !ok {
			return nil
		}
		c = selected
	case ScreenDetail:
		if a.detailState.Status != state.StatusLoaded {
			return nil
		}
		if listed, ok := a.listState.Find(a.detailState.Character.ID); ok {
			c = listed
		} else {
			c = a.detailState.Character.Summary().WithFavorite(a.panel.Favorite())
		}
	}

	ctx, list := a.ctx, a.list
	return func() tea.Msg {
		updated, err := list.ToggleFavorite(ctx, c)
		return FavoriteToggledMsg{Character: updated, Err: err}
	}
}

func (a *App) applyFilter() tea.Cmd {
	f := core.ParseFilter(a.filter.Value())
	a.filter.Blur()
	a.modes.SetMode(vim.ModeNormal)
	if f.IsZero() {
		return a.run("load", a.list.LoadAll)
	}
	return a.run("filter", func(ctx context.Context) error {
		return a.list.LoadFiltered(ctx, f.Name, f.Species)
	})
}

func (a *App) copySelected() tea.Cmd {
	var text string
	switch a.screen {
	case ScreenGrid:
		c, ok := a.grid.Selected()
		if !ok || a.listState.Status != state.StatusLoaded {
			return nil
		}
		text = fmt.Sprintf("%s (%s)", c.Name, core.FormatID(c.ID))
	case ScreenDetail:
		if a.detailState.Status != state.StatusLoaded {
			return nil
		}
		c := a.detailState.Character
		text = fmt.Sprintf("%s (%s)", c.Name, core.FormatID(c.ID))
	}

	if err := a.copy(text); err != nil {
		a.log.Warn(err, "clipboard write failed")
		return a.notify("✗ Copy failed")
	}
	return a.notify("✓ Copied " + text)
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.Close()
	return tea.Quit
}

// View renders the view.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 || a.quitting {
		return ""
	}

	if a.modes.Current() == vim.ModeHelp {
		return components.RenderHelp(a.keys, a.width, a.height)
	}

	bodyHeight := a.height - 2
	if a.modes.IsFilter() {
		bodyHeight--
	}
	bodyHeight = max(bodyHeight, 1)

	var title, body string
	switch a.screen {
	case ScreenDetail:
		title = "Character"
		if a.detailState.Status == state.StatusLoaded {
			title = a.detailState.Character.Name
		}
		body = a.renderDetail(bodyHeight)
	default:
		title = a.grid.Title()
		body = a.renderGrid(bodyHeight)
	}

	body = lipgloss.NewStyle().
		Width(a.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	parts := []string{tui.RenderTitle("rickterm · "+title, a.width, true), body}
	if a.modes.IsFilter() {
		parts = append(parts, a.filter.View())
	}
	parts = append(parts, a.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderGrid(height int) string {
	switch a.listState.Status {
	case state.StatusError:
		return components.RenderError(a.listState.Err, a.width, height)
	case state.StatusLoaded:
		return a.grid.View()
	default:
		return a.loading.View(a.width, height)
	}
}

func (a *App) renderDetail(height int) string {
	switch a.detailState.Status {
	case state.StatusError:
		return components.RenderError(a.detailState.Err, a.width, height)
	case state.StatusLoaded:
		return a.panel.View()
	default:
		return a.loading.View(a.width, height)
	}
}

// renderStatusBar renders the bottom status bar.
func (a *App) renderStatusBar() string {
	var items []string

	modeStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("255")).
		Background(tui.ColorSuccess)
	if a.modes.IsFilter() {
		modeStyle = modeStyle.
			Background(tui.ColorKey).
			Foreground(lipgloss.Color("0"))
	}
	items = append(items, modeStyle.Render(a.modes.Current().String()))

	infoStyle := lipgloss.NewStyle().
		Foreground(tui.ColorText).
		Padding(0, 1)
	if a.listState.Status == state.StatusLoaded {
		shown := fmt.Sprintf("%d shown", len(a.listState.Characters))
		if a.listState.Page.Count > 0 {
			shown += fmt.Sprintf(" of %d", a.listState.Page.Count)
		}
		items = append(items, infoStyle.Render(shown))
	}
	if a.listState.FavoritesOnly {
		items = append(items, lipgloss.NewStyle().
			Foreground(tui.ColorFavorite).
			Bold(true).
			Padding(0, 1).
			Render(components.FavoriteMark+" favorites"))
	}

	if a.notification != "" {
		notifyStyle := lipgloss.NewStyle().
			Foreground(tui.ColorSuccess).
			Bold(true).
			Padding(0, 1)
		if strings.HasPrefix(a.notification, "✗") {
			notifyStyle = notifyStyle.Foreground(tui.ColorError)
		}
		items = append(items, notifyStyle.Render(a.notification))
	}

	helpHint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243")).
		Padding(0, 1).
		Render("? help  q quit")

	left := strings.Join(items, " ")
	spacer := strings.Repeat(" ", max(0, a.width-lipgloss.Width(left)-lipgloss.Width(helpHint)))

	return lipgloss.NewStyle().
		Width(a.width).
		MaxWidth(a.width).
		Background(lipgloss.Color("236")).
		Render(left + spacer + helpHint)
}

// Title returns the view title.
func (a *App) Title() string {
	return "rickterm"
}

// Focused returns true; the root view always has focus.
func (a *App) Focused() bool {
	return true
}

// Focus is a no-op.
func (a *App) Focus() {}

// Blur is a no-op.
func (a *App) Blur() {}

// SetSize sets the terminal size and lays out both screens.
func (a *App) SetSize(width, height int) {
	a.width = width
	a.height = height
	a.grid.SetSize(width, max(height-2, 1))
	a.panel.SetSize(width, max(height-2, 1))
	a.filter.Width = max(width-4, 10)
}

// Width returns the width.
func (a *App) Width() int {
	return a.width
}

// Height returns the height.
func (a *App) Height() int {
	return a.height
}

// Screen returns the screen shown.
func (a *App) Screen() Screen {
	return a.screen
}

// Mode returns the input mode.
func (a *App) Mode() vim.Mode {
	return a.modes.Current()
}

// ListState returns the last list state received.
func (a *App) ListState() state.ListState {
	return a.listState
}

// DetailState returns the last detail state received.
func (a *App) DetailState() state.DetailState {
	return a.detailState
}

// Grid returns the character grid.
func (a *App) Grid() *components.CharacterGrid {
	return a.grid
}

// Panel returns the detail panel.
func (a *App) Panel() *components.DetailPanel {
	return a.panel
}

// Notification returns the current notification message.
func (a *App) Notification() string {
	return a.notification
}

// ShowingHelp returns true if the help overlay is visible.
func (a *App) ShowingHelp() bool {
	return a.modes.Current() == vim.ModeHelp
}

// FilterValue returns the text in the filter prompt.
func (a *App) FilterValue() string {
	return a.filter.Value()
}

// Quitting reports whether quit was requested.
func (a *App) Quitting() bool {
	return a.quitting
}
