package diag

import (
	"fmt"
	"sort"
	"strings"

	"loxvm/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation used by `check` and by golden tests:
//
//	error SYN2001 path/to/file.lox:1:5 Expect expression
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []shortDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortDiagnostic {
	if loc, ok := resolveSpan(fs, d.Primary); ok {
		out = append(out, shortDiagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}
	if includeNotes {
		for _, note := range d.Notes {
			nloc, ok := resolveSpan(fs, note.Span)
			if !ok {
				continue
			}
			out = append(out, shortDiagnostic{
				Severity: SevNote.String(),
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (resolvedSpan, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   strings.TrimPrefix(fs.RelPath(file), "./"),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func sanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
