package diag

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"
)

// Formatter renders Diagnostics against source text, grounded on the
// pack's malphas-lang diag.Formatter (header line + underlined source
// span) but using rune display width instead of byte/column count, so
// that a caret under a wide CJK identifier lands under the glyph it
// names rather than stopping halfway through it.
type Formatter struct {
	Out io.Writer

	// sources maps a Pos.File to its text, loaded by the caller via
	// LoadSource. Without a loaded source, Format falls back to the
	// header-only rendering.
	sources map[string]string
}

func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{Out: out, sources: map[string]string{}}
}

func (f *Formatter) LoadSource(file, text string) {
	f.sources[file] = text
}

func (f *Formatter) Format(d Diagnostic) {
	fmt.Fprintf(f.Out, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)
	f.printSpan(d.Pos, "")
	for _, span := range d.Spans {
		f.printSpan(span.Pos, span.Label)
	}
	if d.FixIt != nil {
		fmt.Fprintf(f.Out, "  help: %s\n", d.FixIt.Message)
		if d.FixIt.Replacement != "" {
			fmt.Fprintf(f.Out, "      -> %s\n", d.FixIt.Replacement)
		}
	}
}

func (f *Formatter) printSpan(pos Pos, label string) {
	if pos.File == "" {
		return
	}
	fmt.Fprintf(f.Out, "  --> %s:%d:%d\n", pos.File, pos.Line, pos.Column)
	src, ok := f.sources[pos.File]
	if !ok {
		return
	}
	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return
	}
	line := lines[pos.Line-1]
	fmt.Fprintf(f.Out, "   | %s\n", line)
	fmt.Fprintf(f.Out, "   | %s^", strings.Repeat(" ", displayWidth(line, pos.Column-1)))
	if label != "" {
		fmt.Fprintf(f.Out, " %s", label)
	}
	fmt.Fprintln(f.Out)
}

// displayWidth sums the column width of the first n runes of line,
// counting East-Asian wide runes as two columns so a caret placed after
// them lines up with a monospace terminal's actual cursor position.
func displayWidth(line string, n int) int {
	w := 0
	i := 0
	for _, r := range line {
		if i >= n {
			break
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
		i++
	}
	return w
}
