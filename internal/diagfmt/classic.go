package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"loxvm/internal/diag"
	"loxvm/internal/source"
)

// ClassicReporter печатает каждую диагностику сразу, в формате
//
//	[line 1] Error at '+': Expect expression
//
// Реализует diag.Reporter.
type ClassicReporter struct {
	w     io.Writer
	fs    *source.FileSet
	label *color.Color
	count int
}

var _ diag.Reporter = (*ClassicReporter)(nil)

func NewClassicReporter(w io.Writer, fs *source.FileSet, opts ClassicOpts) *ClassicReporter {
	return &ClassicReporter{
		w:     w,
		fs:    fs,
		label: newColor(opts.Color, color.FgRed, color.Bold),
	}
}

func (r *ClassicReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.count++
	line, where := classicLocation(r.fs, code, primary)
	fmt.Fprintf(r.w, "[line %d] %s%s: %s\n", line, r.label.Sprint(sev.Word()), where, msg)
	for _, n := range notes {
		nline, _ := classicLocation(r.fs, diag.UnknownCode, n.Span)
		fmt.Fprintf(r.w, "[line %d] note: %s\n", nline, n.Msg)
	}
}

// Count returns how many diagnostics were printed.
func (r *ClassicReporter) Count() int { return r.count }

// FormatClassic renders one diagnostic without trailing newline and without colour.
func FormatClassic(fs *source.FileSet, d diag.Diagnostic) string {
	line, where := classicLocation(fs, d.Code, d.Primary)
	return fmt.Sprintf("[line %d] %s%s: %s", line, d.Severity.Word(), where, d.Message)
}

// classicLocation: лексические ошибки без локации (сообщение уже всё говорит),
// пустой span - конец ввода, иначе текст токена. Строка берётся по концу
// span, как Token.Line: многострочная строка сообщается на последней строке.
func classicLocation(fs *source.FileSet, code diag.Code, sp source.Span) (uint32, string) {
	var line uint32
	var f *source.File
	if fs != nil {
		f = fs.Get(sp.File)
	}
	if f != nil {
		_, end := fs.Resolve(sp)
		line = end.Line
	}
	switch {
	case code.IsLexical():
		return line, ""
	case sp.Empty():
		return line, " at end"
	case f == nil:
		return line, ""
	default:
		return line, fmt.Sprintf(" at '%s'", f.Text(sp))
	}
}

// RuntimeError writes a runtime failure the way scripts report it:
//
//	Operands must be numbers
//	[line 3] in script
func RuntimeError(w io.Writer, msg string, line uint32, colorize bool) {
	c := newColor(colorize, color.FgRed)
	fmt.Fprintln(w, c.Sprint(msg))
	fmt.Fprintf(w, "[line %d] in script\n", line)
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
