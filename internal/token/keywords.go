package token

// LookupKeyword classifies an identifier lexeme. It dispatches on the first
// (and for 'f'/'t' the second) byte and then compares the remaining suffix,
// so no map lookup or allocation happens on the scanner's hot path.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	if len(ident) < 2 {
		return Identifier, false
	}
	switch ident[0] {
	case 'a':
		return checkKeyword(ident, 1, "nd", And)
	case 'c':
		return checkKeyword(ident, 1, "lass", Class)
	case 'e':
		return checkKeyword(ident, 1, "lse", Else)
	case 'f':
		switch ident[1] {
		case 'a':
			return checkKeyword(ident, 2, "lse", False)
		case 'o':
			return checkKeyword(ident, 2, "r", For)
		case 'u':
			return checkKeyword(ident, 2, "n", Fun)
		}
	case 'i':
		return checkKeyword(ident, 1, "f", If)
	case 'n':
		return checkKeyword(ident, 1, "il", Nil)
	case 'o':
		return checkKeyword(ident, 1, "r", Or)
	case 'p':
		return checkKeyword(ident, 1, "rint", Print)
	case 'r':
		return checkKeyword(ident, 1, "eturn", Return)
	case 's':
		return checkKeyword(ident, 1, "uper", Super)
	case 't':
		switch ident[1] {
		case 'h':
			return checkKeyword(ident, 2, "is", This)
		case 'r':
			return checkKeyword(ident, 2, "ue", True)
		}
	case 'v':
		return checkKeyword(ident, 1, "ar", Var)
	case 'w':
		return checkKeyword(ident, 1, "hile", While)
	}
	return Identifier, false
}

func checkKeyword(ident string, start int, rest string, kind Kind) (Kind, bool) {
	if len(ident) == start+len(rest) && ident[start:] == rest {
		return kind, true
	}
	return Identifier, false
}
