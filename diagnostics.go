package fnware

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// The diagnostic sink receives one line per error that crosses a
// middleware-link boundary: a timestamp, a severity tag, and the error. The
// format is not a wire contract; the tag is colorized when the sink supports
// it (lipgloss downgrades to plain text otherwise).

type diagnostics struct {
	mu  sync.Mutex
	out io.Writer
	tag string
}

var diag = newDiagnostics(os.Stderr)

func newDiagnostics(w io.Writer) *diagnostics {
	style := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)
	return &diagnostics{out: w, tag: style.Render("ERROR")}
}

// SetDiagnosticOutput redirects chain error diagnostics. The default sink is
// stderr. Passing nil restores the default.
func SetDiagnosticOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	next := newDiagnostics(w)

	diag.mu.Lock()
	diag.out = next.out
	diag.tag = next.tag
	diag.mu.Unlock()
}

func logChainError(err error) {
	diag.mu.Lock()
	defer diag.mu.Unlock()
	fmt.Fprintf(diag.out, "%s %s %v\n", time.Now().Format(time.RFC3339), diag.tag, err)
}
