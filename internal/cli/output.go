package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// isTerminal reports whether w is an interactive terminal. Piped output
// gets plain tab-separated lines without headers.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// table writes aligned columns on a terminal and bare TSV otherwise.
type table struct {
	out    io.Writer
	tw     *tabwriter.Writer
	pretty bool
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{out: out, pretty: isTerminal(out)}
	if t.pretty {
		t.tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		if len(headers) > 0 {
			t.row(headers...)
		}
	}
	return t
}

func (t *table) row(cols ...string) {
	line := strings.Join(cols, "\t") + "\n"
	if t.tw != nil {
		io.WriteString(t.tw, line)
		return
	}
	io.WriteString(t.out, line)
}

func (t *table) flush() error {
	if t.tw != nil {
		return t.tw.Flush()
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func favoriteMark(favorite bool) string {
	if favorite {
		return "★"
	}
	return ""
}
