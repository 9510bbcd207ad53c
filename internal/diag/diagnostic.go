package diag

import (
	"loxvm/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one scanner or compiler complaint. Primary is the offending
// token's span; an empty span means "at end".
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError builds a SevError diagnostic; scanner and compiler only report these.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
