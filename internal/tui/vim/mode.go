package vim

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeDetail
	ModeHelp
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeFilter:
		return "FILTER"
	case ModeDetail:
		return "DETAIL"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

// ModeManager handles mode state, transitions and count prefixes.
type ModeManager struct {
	current  Mode
	previous Mode
	count    int
	hasCount bool
}

// NewModeManager creates a new mode manager starting in normal mode.
func NewModeManager() *ModeManager {
	return &ModeManager{
		current:  ModeNormal,
		previous: ModeNormal,
		count:    1,
	}
}

// Current returns the current mode.
func (m *ModeManager) Current() Mode {
	return m.current
}

// Previous returns the previous mode.
func (m *ModeManager) Previous() Mode {
	return m.previous
}

// SetMode changes the current mode. A pending count is discarded.
func (m *ModeManager) SetMode(mode Mode) {
	m.previous = m.current
	m.current = mode
	m.ResetCount()
}

// Restore switches back to the previous mode.
func (m *ModeManager) Restore() {
	m.SetMode(m.previous)
}

// IsNormal returns true if in normal mode.
func (m *ModeManager) IsNormal() bool {
	return m.current == ModeNormal
}

// IsFilter returns true while the filter prompt has focus.
func (m *ModeManager) IsFilter() bool {
	return m.current == ModeFilter
}

// Count returns the current count (default 1).
func (m *ModeManager) Count() int {
	return m.count
}

// AppendCount adds a digit to the count.
func (m *ModeManager) AppendCount(digit int) {
	if !m.hasCount {
		m.count = digit
		m.hasCount = true
	} else {
		m.count = m.count*10 + digit
	}
}

// ResetCount resets the count to default (1).
func (m *ModeManager) ResetCount() {
	m.count = 1
	m.hasCount = false
}

// HasCount returns true if a count was explicitly set.
func (m *ModeManager) HasCount() bool {
	return m.hasCount
}

// Reset resets all mode state to defaults.
func (m *ModeManager) Reset() {
	m.current = ModeNormal
	m.previous = ModeNormal
	m.ResetCount()
}
