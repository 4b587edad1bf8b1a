package vim

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Action identifies what a key binding does.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionTop
	ActionBottom
	ActionOpen
	ActionBack
	ActionToggleFavorite
	ActionFavoritesOnly
	ActionShowAll
	ActionFilter
	ActionReload
	ActionLoadMore
	ActionCopy
	ActionHelp
	ActionQuit
)

// KeyBinding represents a single key binding.
type KeyBinding struct {
	key         string
	description string
	action      Action
}

// NewKeyBinding creates a new key binding.
func NewKeyBinding(key, description string, action Action) *KeyBinding {
	return &KeyBinding{
		key:         key,
		description: description,
		action:      action,
	}
}

// Key returns the key string.
func (kb *KeyBinding) Key() string {
	return kb.key
}

// Description returns the description.
func (kb *KeyBinding) Description() string {
	return kb.description
}

// Action returns the bound action.
func (kb *KeyBinding) Action() Action {
	return kb.action
}

// Matches returns true if the key message matches this binding.
func (kb *KeyBinding) Matches(msg tea.KeyMsg) bool {
	return matchKey(kb.key, msg)
}

// matchKey checks if a key string matches a tea.KeyMsg. Named keys are case
// insensitive; single runes are not, so "f" and "F" stay distinct.
func matchKey(key string, msg tea.KeyMsg) bool {
	switch strings.ToLower(key) {
	case "enter":
		return msg.Type == tea.KeyEnter
	case "esc", "escape":
		return msg.Type == tea.KeyEsc
	case "space":
		return msg.Type == tea.KeySpace
	case "tab":
		return msg.Type == tea.KeyTab
	case "backspace":
		return msg.Type == tea.KeyBackspace
	case "up":
		return msg.Type == tea.KeyUp
	case "down":
		return msg.Type == tea.KeyDown
	case "left":
		return msg.Type == tea.KeyLeft
	case "right":
		return msg.Type == tea.KeyRight
	case "home":
		return msg.Type == tea.KeyHome
	case "end":
		return msg.Type == tea.KeyEnd
	case "pgdown":
		return msg.Type == tea.KeyPgDown
	case "ctrl+c":
		return msg.Type == tea.KeyCtrlC
	case "ctrl+r":
		return msg.Type == tea.KeyCtrlR
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			return string(msg.Runes) == key
		}
		return false
	}
}

// KeyMap holds key bindings organized by mode.
type KeyMap struct {
	bindings map[Mode][]*KeyBinding
}

// NewKeyMap creates a new empty key map.
func NewKeyMap() *KeyMap {
	return &KeyMap{
		bindings: make(map[Mode][]*KeyBinding),
	}
}

// Register adds a key binding for a mode.
func (km *KeyMap) Register(mode Mode, key, description string, action Action) {
	km.bindings[mode] = append(km.bindings[mode], NewKeyBinding(key, description, action))
}

// GetBindings returns all bindings for a mode.
func (km *KeyMap) GetBindings(mode Mode) []*KeyBinding {
	return km.bindings[mode]
}

// FindBinding finds a matching binding for the given mode and key message.
func (km *KeyMap) FindBinding(mode Mode, msg tea.KeyMsg) (*KeyBinding, bool) {
	for _, kb := range km.bindings[mode] {
		if kb.Matches(msg) {
			return kb, true
		}
	}
	return nil, false
}

// Lookup returns the action bound to msg in mode, or ActionNone.
func (km *KeyMap) Lookup(mode Mode, msg tea.KeyMsg) Action {
	if kb, ok := km.FindBinding(mode, msg); ok {
		return kb.Action()
	}
	return ActionNone
}

// DefaultKeyMap returns the grid and detail bindings.
func DefaultKeyMap() *KeyMap {
	km := NewKeyMap()

	// Grid navigation
	km.Register(ModeNormal, "j", "move down", ActionDown)
	km.Register(ModeNormal, "down", "move down", ActionDown)
	km.Register(ModeNormal, "k", "move up", ActionUp)
	km.Register(ModeNormal, "up", "move up", ActionUp)
	km.Register(ModeNormal, "h", "move left", ActionLeft)
	km.Register(ModeNormal, "left", "move left", ActionLeft)
	km.Register(ModeNormal, "l", "move right", ActionRight)
	km.Register(ModeNormal, "right", "move right", ActionRight)
	km.Register(ModeNormal, "G", "go to last", ActionBottom)
	km.Register(ModeNormal, "end", "go to last", ActionBottom)
	km.Register(ModeNormal, "home", "go to first", ActionTop)
	km.Register(ModeNormal, "enter", "open character", ActionOpen)

	// Listing
	km.Register(ModeNormal, "f", "toggle favorite", ActionToggleFavorite)
	km.Register(ModeNormal, "F", "favorites only", ActionFavoritesOnly)
	km.Register(ModeNormal, "a", "show all", ActionShowAll)
	km.Register(ModeNormal, "/", "filter", ActionFilter)
	km.Register(ModeNormal, "r", "reload", ActionReload)
	km.Register(ModeNormal, "n", "load more", ActionLoadMore)
	km.Register(ModeNormal, "pgdown", "load more", ActionLoadMore)
	km.Register(ModeNormal, "y", "copy name", ActionCopy)
	km.Register(ModeNormal, "?", "help", ActionHelp)
	km.Register(ModeNormal, "q", "quit", ActionQuit)
	km.Register(ModeNormal, "ctrl+c", "quit", ActionQuit)

	// Detail screen
	km.Register(ModeDetail, "esc", "back", ActionBack)
	km.Register(ModeDetail, "backspace", "back", ActionBack)
	km.Register(ModeDetail, "f", "toggle favorite", ActionToggleFavorite)
	km.Register(ModeDetail, "y", "copy name", ActionCopy)
	km.Register(ModeDetail, "?", "help", ActionHelp)
	km.Register(ModeDetail, "q", "quit", ActionQuit)
	km.Register(ModeDetail, "ctrl+c", "quit", ActionQuit)

	// Overlays
	km.Register(ModeHelp, "esc", "close help", ActionBack)
	km.Register(ModeHelp, "?", "close help", ActionBack)
	km.Register(ModeHelp, "ctrl+c", "quit", ActionQuit)
	km.Register(ModeFilter, "esc", "cancel filter", ActionBack)
	km.Register(ModeFilter, "enter", "apply filter", ActionOpen)
	km.Register(ModeFilter, "ctrl+c", "quit", ActionQuit)

	return km
}

// SequenceStatus represents the state of a key sequence.
type SequenceStatus int

const (
	SequenceNone SequenceStatus = iota
	SequencePending
	SequenceComplete
	SequenceInvalid
)

// SequenceResult holds the result of handling a key in a sequence.
type SequenceResult struct {
	Status SequenceStatus
	Action Action
}

// KeySequenceHandler handles multi-key sequences like "gg".
type KeySequenceHandler struct {
	sequences map[string]Action
	buffer    string
}

// NewKeySequenceHandler creates a new sequence handler.
func NewKeySequenceHandler() *KeySequenceHandler {
	return &KeySequenceHandler{
		sequences: make(map[string]Action),
	}
}

// Register adds a sequence.
func (h *KeySequenceHandler) Register(sequence string, action Action) {
	h.sequences[sequence] = action
}

// Handle processes a key and returns the sequence status.
func (h *KeySequenceHandler) Handle(key string) SequenceResult {
	h.buffer += key

	if action, ok := h.sequences[h.buffer]; ok {
		hasLonger := false
		for seq := range h.sequences {
			if len(seq) > len(h.buffer) && strings.HasPrefix(seq, h.buffer) {
				hasLonger = true
				break
			}
		}
		if !hasLonger {
			h.buffer = ""
			return SequenceResult{Status: SequenceComplete, Action: action}
		}
		return SequenceResult{Status: SequencePending}
	}

	for seq := range h.sequences {
		if strings.HasPrefix(seq, h.buffer) {
			return SequenceResult{Status: SequencePending}
		}
	}

	h.buffer = ""
	return SequenceResult{Status: SequenceInvalid}
}

// Reset clears the sequence buffer.
func (h *KeySequenceHandler) Reset() {
	h.buffer = ""
}

// Buffer returns the current sequence buffer.
func (h *KeySequenceHandler) Buffer() string {
	return h.buffer
}
