package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = utf8.RuneSelf

// bumpRune перемещает курсор на размер текущей руны (минимум один байт,
// чтобы битый UTF-8 не зациклил лексер).
func (lx *Lexer) bumpRune() {
	if lx.cursor.EOF() {
		return
	}
	_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== Классификаторы =====

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
