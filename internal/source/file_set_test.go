package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.lox", []byte("1 + 2"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.lox")
	if !exists || latestID != id1 {
		t.Errorf("GetLatest = (%d, %v), want (%d, true)", latestID, exists, id1)
	}

	// тот же путь, новое содержимое
	id2 := fs.Add("test.lox", []byte("3 * 4"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("test.lox")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := string(fs.Get(id1).Content); got != "1 + 2" {
		t.Errorf("old version content = %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "3 * 4" {
		t.Errorf("new version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
	if fs.Get(FileID(42)) != nil {
		t.Error("Get with unknown id should return nil")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.lox", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestSetVirtualReusesSlot(t *testing.T) {
	fs := NewFileSet()
	disk := fs.Add("script", []byte("1"), 0)

	// файл с диска не перезаписывается, создаётся виртуальный
	first := fs.SetVirtual("script", []byte("1 +\n2"))
	if first == disk {
		t.Fatal("SetVirtual overwrote a non-virtual file")
	}
	for _, src := range []string{"3", "4\n5\n", "\"x\""} {
		if id := fs.SetVirtual("script", []byte(src)); id != first {
			t.Fatalf("SetVirtual(%q) = %d, want %d", src, id, first)
		}
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
	f := fs.Get(first)
	if string(f.Content) != "\"x\"" || len(f.LineIdx) != 0 {
		t.Errorf("content %q, LineIdx %v", f.Content, f.LineIdx)
	}
	if string(fs.Get(disk).Content) != "1" {
		t.Error("disk file changed")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.lox", []byte("1 +\n  2\n\n\"x\""))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{3, LineCol{Line: 1, Col: 4}}, // сам '\n' относится к первой строке
		{4, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 2, Col: 3}},
		{8, LineCol{Line: 3, Col: 1}},
		{9, LineCol{Line: 4, Col: 1}},
		{12, LineCol{Line: 4, Col: 4}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestCRLFNormalization(t *testing.T) {
	normalized, changed := normalizeCRLF([]byte("a\r\nb\r\nc\r"))
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\nc\r" {
		t.Errorf("normalized = %q", normalized)
	}

	same, changed := normalizeCRLF([]byte("a\nb"))
	if changed || string(same) != "a\nb" {
		t.Errorf("unexpected change: %q %v", same, changed)
	}
}

func TestLoadStripsBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.lox")
	if err := os.WriteFile(path, []byte{0xEF, 0xBB, 0xBF, '1', '\r', '\n', '2'}, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "1\n2" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", f.Flags)
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.lox")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetLineAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("l.lox", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	for n, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
	if got := f.Text(Span{File: id, Start: 6, End: 12}); got != "second" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Text(Span{File: id, Start: 17, End: 99}); got != "d" {
		t.Errorf("Text past end = %q", got)
	}
	if f.EndOffset() != 18 {
		t.Errorf("EndOffset = %d", f.EndOffset())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 2, End: 5}
	if got := a.Cover(b); got.Start != 2 || got.End != 6 {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 10}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
	if !(Span{Start: 3, End: 3}).Empty() || a.Len() != 2 {
		t.Error("Empty/Len mismatch")
	}
}

func TestRelPath(t *testing.T) {
	fs := NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.Add("/work/scripts/a.lox", nil, 0)
	if got := fs.RelPath(fs.Get(id)); got != "scripts/a.lox" {
		t.Errorf("RelPath = %q", got)
	}
	vid := fs.AddVirtual("<repl:1>", nil)
	if got := fs.RelPath(fs.Get(vid)); got != "<repl:1>" {
		t.Errorf("virtual RelPath = %q", got)
	}
}
