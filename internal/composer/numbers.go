package composer

type charClass int

const (
	classOther charClass = iota
	classAlphabet
	classNumber
	classJAHyphen
	classJAComma
	classJAPeriod
)

func classify(r rune) charClass {
	switch {
	case r == 'ー':
		return classJAHyphen
	case r == '、':
		return classJAComma
	case r == '。':
		return classJAPeriod
	case r >= '0' && r <= '9':
		return classNumber
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return classAlphabet
	default:
		return classOther
	}
}

// TransformCharactersForNumbers rewrites Japanese punctuation (ー、。)
// embedded in an otherwise alphanumeric query into its ASCII-adjacent
// equivalent (minus sign, comma, period), since a user typing a figure
// like "3.14" through a kana table would otherwise see "3。14". It is a
// no-op unless the query has at least one alphanumeric character AND at
// least one of the three punctuation marks; it never changes the number
// of characters, only their identity, so callers can always re-split a
// transformed string at the original character boundaries.
func TransformCharactersForNumbers(query string) (string, bool) {
	runes := []rune(query)
	classes := make([]charClass, len(runes))
	hasAlnum := false
	hasSymbol := false
	for i, r := range runes {
		c := classify(r)
		classes[i] = c
		switch c {
		case classAlphabet, classNumber:
			hasAlnum = true
		case classJAHyphen, classJAComma, classJAPeriod:
			hasSymbol = true
		}
	}
	if !hasAlnum || !hasSymbol {
		return query, false
	}

	changed := false
	out := make([]rune, len(runes))
	for i, r := range runes {
		switch classes[i] {
		case classJAHyphen:
			if shouldConvertHyphen(classes, i) {
				out[i] = '−' // MINUS SIGN
				changed = true
			} else {
				out[i] = r
			}
		case classJAComma:
			if i > 0 && (classes[i-1] == classAlphabet || classes[i-1] == classNumber) {
				out[i] = '，'
				changed = true
			} else {
				out[i] = r
			}
		case classJAPeriod:
			if i > 0 && (classes[i-1] == classAlphabet || classes[i-1] == classNumber) {
				out[i] = '．'
				changed = true
			} else {
				out[i] = r
			}
		default:
			out[i] = r
		}
	}
	if !changed {
		return query, false
	}
	return string(out), true
}

// shouldConvertHyphen decides whether the JA_HYPHEN at classes[i] becomes
// the ASCII-adjacent minus sign: either it sits at position 0 and the
// following character is a NUMBER, or walking left past any run of
// JA_HYPHENs immediately preceding it lands on an ALPHABET or NUMBER
// character.
func shouldConvertHyphen(classes []charClass, i int) bool {
	if i == 0 {
		return len(classes) > 1 && classes[1] == classNumber
	}
	j := i
	for j > 0 && classes[j-1] == classJAHyphen {
		j--
	}
	if j == 0 {
		return false
	}
	before := classes[j-1]
	return before == classAlphabet || before == classNumber
}

// splitTransformedByRuneCount re-divides a post-transform string back
// into three parts of the given original rune lengths. It assumes
// TransformCharactersForNumbers was applied to the concatenation of the
// three parts and therefore preserved the total rune count.
func splitTransformedByRuneCount(transformed string, leftLen, focusedLen int) (left, focused, right string) {
	runes := []rune(transformed)
	if leftLen > len(runes) {
		leftLen = len(runes)
	}
	end := leftLen + focusedLen
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[:leftLen]), string(runes[leftLen:end]), string(runes[end:])
}
