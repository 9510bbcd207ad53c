package diagfmt

import (
	"path/filepath"

	"loxvm/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses the relative path when the file is under the base directory.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ClassicOpts configures the `[line N] Error at 'x': msg` renderer.
type ClassicOpts struct {
	Color bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if f == nil {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return fs.RelPath(f)
	}
}
