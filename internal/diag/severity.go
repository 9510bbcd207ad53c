package diag

// Severity orders diagnostics. Anything at SevError or above fails the file.
type Severity uint8

const (
	// SevNote marks secondary locations attached to another diagnostic.
	SevNote Severity = iota
	SevWarning
	SevError
)

// String is the lowercase label of the short and JSON formats.
func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Word is the capitalised form used in "[line N] Error at 'x': msg".
func (s Severity) Word() string {
	switch s {
	case SevNote:
		return "Note"
	case SevWarning:
		return "Warning"
	case SevError:
		return "Error"
	}
	return "Diagnostic"
}
