package lexer

import (
	"loxvm/internal/source"
	"testing"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.lox", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	file := createFile("a\nb")
	cursor := NewCursor(file)

	// Читаем первый символ 'a'
	if cursor.EOF() {
		t.Error("Expected not EOF at start")
	}
	if cursor.Peek() != 'a' {
		t.Errorf("Expected peek 'a', got %c", cursor.Peek())
	}
	b := cursor.Bump()
	if b != 'a' {
		t.Errorf("Expected bump 'a', got %c", b)
	}

	// Читаем символ новой строки '\n'
	if cursor.EOF() {
		t.Error("Expected not EOF after 'a'")
	}
	if cursor.Peek() != '\n' {
		t.Errorf("Expected peek '\\n', got %c", cursor.Peek())
	}
	b = cursor.Bump()
	if b != '\n' {
		t.Errorf("Expected bump '\\n', got %c", b)
	}

	// Читаем последний символ 'b'
	if cursor.EOF() {
		t.Error("Expected not EOF after '\\n'")
	}
	if cursor.Peek() != 'b' {
		t.Errorf("Expected peek 'b', got %c", cursor.Peek())
	}
	b = cursor.Bump()
	if b != 'b' {
		t.Errorf("Expected bump 'b', got %c", b)
	}

	// Проверяем EOF
	if !cursor.EOF() {
		t.Error("Expected EOF at end")
	}
	if cursor.Peek() != 0 {
		t.Errorf("Expected peek 0 at EOF, got %c", cursor.Peek())
	}
	b = cursor.Bump()
	if b != 0 {
		t.Errorf("Expected bump 0 at EOF, got %c", b)
	}
}

// TestPeek2 проверяет Peek2 на середине и конце файла
func TestPeek2(t *testing.T) {
	file := createFile("abc")
	cursor := NewCursor(file)

	// Peek2 в начале файла
	b0, b1, ok := cursor.Peek2()
	if !ok {
		t.Error("Expected Peek2 to succeed at start")
	}
	if b0 != 'a' || b1 != 'b' {
		t.Errorf("Expected Peek2('a', 'b'), got ('%c', '%c')", b0, b1)
	}

	// Перемещаемся на середину
	cursor.Bump() // 'a'

	// Peek2 в середине файла
	b0, b1, ok = cursor.Peek2()
	if !ok {
		t.Error("Expected Peek2 to succeed in middle")
	}
	if b0 != 'b' || b1 != 'c' {
		t.Errorf("Expected Peek2('b', 'c'), got ('%c', '%c')", b0, b1)
	}

	// Перемещаемся к концу
	cursor.Bump() // 'b'

	// Peek2 в конце файла (должен вернуть false)
	b0, b1, ok = cursor.Peek2()
	if ok {
		t.Error("Expected Peek2 to fail at end")
	}
	if b0 != 0 || b1 != 0 {
		t.Errorf("Expected Peek2(0, 0) at end, got ('%c', '%c')", b0, b1)
	}
}

// TestSpanFromResolve проверяет SpanFrom и Resolve с UTF-8
func TestSpanFromResolve(t *testing.T) {
	// "α\nβ": α=2 байта, \n=1 байт, β=2 байта
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.lox", []byte("α\nβ")))
	cursor := NewCursor(file)

	mark := cursor.Mark()
	cursor.Bump() // первый байт α
	cursor.Bump() // второй байт α
	span := cursor.SpanFrom(mark)
	if span.Start != 0 || span.End != 2 {
		t.Fatalf("Expected span (0,2), got (%d,%d)", span.Start, span.End)
	}

	start, end := fs.Resolve(span)
	if start != (source.LineCol{Line: 1, Col: 1}) {
		t.Errorf("Expected start 1:1, got %+v", start)
	}
	if end != (source.LineCol{Line: 1, Col: 3}) {
		t.Errorf("Expected end 1:3, got %+v", end)
	}

	// сам перевод строки принадлежит первой строке
	mark2 := cursor.Mark()
	cursor.Bump() // '\n'
	span2 := cursor.SpanFrom(mark2)
	start2, end2 := fs.Resolve(span2)
	if start2 != (source.LineCol{Line: 1, Col: 3}) {
		t.Errorf("Expected start2 1:3, got %+v", start2)
	}
	if end2 != (source.LineCol{Line: 2, Col: 1}) {
		t.Errorf("Expected end2 2:1, got %+v", end2)
	}
}

// TestEatNewline проверяет поведение Eat('\n')
func TestEatNewline(t *testing.T) {
	file := createFile("a\nb")
	cursor := NewCursor(file)

	// Пытаемся съесть 'a' - должно сработать
	if !cursor.Eat('a') {
		t.Error("Expected Eat('a') to succeed")
	}
	if cursor.Peek() != '\n' {
		t.Errorf("Expected peek '\\n' after Eat('a'), got %c", cursor.Peek())
	}

	// Пытаемся съесть '\n' - должно сработать
	if !cursor.Eat('\n') {
		t.Error("Expected Eat('\\n') to succeed")
	}
	if cursor.Peek() != 'b' {
		t.Errorf("Expected peek 'b' after Eat('\\n'), got %c", cursor.Peek())
	}

	// Пытаемся съесть 'b' - должно сработать
	if !cursor.Eat('b') {
		t.Error("Expected Eat('b') to succeed")
	}
	if !cursor.EOF() {
		t.Error("Expected EOF after Eat('b')")
	}

	// Пытаемся съесть что-то в EOF - не должно сработать
	if cursor.Eat('x') {
		t.Error("Expected Eat('x') at EOF to fail")
	}

	// Пытаемся съесть неправильный символ
	cursor.Reset(Mark(0)) // возвращаемся к началу
	if cursor.Eat('x') {
		t.Error("Expected Eat('x') to fail when current char is 'a'")
	}
	if cursor.Peek() != 'a' {
		t.Errorf("Expected cursor position unchanged after failed Eat, got %c", cursor.Peek())
	}
}

// TestMarkReset проверяет работу Mark и Reset
func TestMarkReset(t *testing.T) {
	file := createFile("abc")
	cursor := NewCursor(file)

	// Ставим метку в начале
	mark1 := cursor.Mark()

	// Читаем первый символ
	cursor.Bump()

	// Ставим вторую метку
	mark2 := cursor.Mark()

	// Читаем еще символ
	cursor.Bump()

	// Возвращаемся ко второй метке
	cursor.Reset(mark2)
	if cursor.Peek() != 'b' {
		t.Errorf("Expected peek 'b' after reset to mark2, got %c", cursor.Peek())
	}

	// Возвращаемся к первой метке
	cursor.Reset(mark1)
	if cursor.Peek() != 'a' {
		t.Errorf("Expected peek 'a' after reset to mark1, got %c", cursor.Peek())
	}
}
