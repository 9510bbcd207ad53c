package diag

import (
	"testing"

	"loxvm/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	a := fs.Add("/workspace/testdata/b.lox", []byte("1 +\n(2"), 0)
	b := fs.Add("/workspace/testdata/a.lox", []byte("@"), 0)

	diags := []Diagnostic{
		NewError(SynExpectRightParen, source.Span{File: a, Start: 6, End: 6}, "Expect ')' after expression").
			WithNote(source.Span{File: a, Start: 4, End: 5}, "group\nopened here"),
		NewError(LexUnknownChar, source.Span{File: b, Start: 0, End: 1}, "Unexpected character."),
	}

	want := "error LEX1001 testdata/a.lox:1:1 Unexpected character.\n" +
		"note SYN2002 testdata/b.lox:2:1 group opened here\n" +
		"error SYN2002 testdata/b.lox:2:3 Expect ')' after expression"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestBagLimitSortAndDedup(t *testing.T) {
	bag := NewBag(3)
	r := BagReporter{Bag: bag}

	r.Report(SynExpectEnd, SevError, source.Span{Start: 9, End: 10}, "late", nil)
	r.Report(LexUnknownChar, SevError, source.Span{Start: 1, End: 2}, "early", nil)
	r.Report(LexUnknownChar, SevError, source.Span{Start: 1, End: 2}, "early again", nil)
	if bag.Add(NewError(SynExpectExpression, source.Span{}, "dropped")) {
		t.Fatal("bag accepted diagnostic beyond its limit")
	}
	if bag.Len() != 3 || !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("unexpected bag state: len=%d", bag.Len())
	}

	bag.Sort()
	if bag.Items()[0].Message != "early" {
		t.Fatalf("Sort put %q first", bag.Items()[0].Message)
	}
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("Dedup left %d items, want 2", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SynExpectExpression, source.Span{}, "Expect expression").
		WithNote(source.Span{Start: 1, End: 1}, "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0]; got.Code != SynExpectExpression || len(got.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", got)
	}

	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(source.Span{}, "x").Emit()
}

func TestMultiReporterFansOut(t *testing.T) {
	first, second := NewBag(4), NewBag(4)
	m := MultiReporter{BagReporter{Bag: first}, nil, BagReporter{Bag: second}}
	ReportWarning(m, LexInfo, source.Span{}, "w").Emit()
	if first.Len() != 1 || second.Len() != 1 {
		t.Fatalf("fan-out failed: %d %d", first.Len(), second.Len())
	}
	if first.HasErrors() {
		t.Fatal("warning counted as error")
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnterminatedString: "LEX1002",
		SynExpectEnd:          "SYN2003",
		Code(4003):            "E0000",
		UnknownCode:           "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
	if !LexUnknownChar.IsLexical() || SynExpectEnd.IsLexical() {
		t.Error("IsLexical mismatch")
	}
	if Code(9999).Title() != "Unknown error" {
		t.Error("unknown code title")
	}
}
