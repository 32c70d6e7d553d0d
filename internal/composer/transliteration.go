package composer

import "strings"

// hiraganaToKatakana shifts every rune in the Hiragana block up to its
// Katakana counterpart; the two blocks are aligned at the same offsets
// for the ranges the composer ever produces.
func hiraganaToKatakana(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x3041 && r <= 0x3096 {
			b.WriteRune(r + 0x60)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fullWidthToHalfWidth converts fullwidth ASCII-range characters
// (U+FF01-FF5E) down to their ASCII equivalents, the ideographic space
// to an ASCII space, and the fullwidth katakana listed in
// fullKatakanaToHalf down to halfwidth katakana.
func fullWidthToHalfWidth(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 0xFF01 && r <= 0xFF5E:
			b.WriteRune(r - 0xFEE0)
		case r == 0x3000:
			b.WriteRune(' ')
		default:
			if hw, ok := fullKatakanaToHalf[r]; ok {
				b.WriteString(hw)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func halfWidthToFullWidth(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 0x21 && r <= 0x7E:
			b.WriteRune(r + 0xFEE0)
		case r == ' ':
			b.WriteRune(0x3000)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fullKatakanaToHalf covers the common kana needed by round-tripping
// through HALF_KATAKANA; it is not an exhaustive JIS X 0201 table.
var fullKatakanaToHalf = map[rune]string{
	'ア': "ｱ", 'イ': "ｲ", 'ウ': "ｳ", 'エ': "ｴ", 'オ': "ｵ",
	'カ': "ｶ", 'キ': "ｷ", 'ク': "ｸ", 'ケ': "ｹ", 'コ': "ｺ",
	'サ': "ｻ", 'シ': "ｼ", 'ス': "ｽ", 'セ': "ｾ", 'ソ': "ｿ",
	'タ': "ﾀ", 'チ': "ﾁ", 'ツ': "ﾂ", 'テ': "ﾃ", 'ト': "ﾄ",
	'ナ': "ﾅ", 'ニ': "ﾆ", 'ヌ': "ﾇ", 'ネ': "ﾈ", 'ノ': "ﾉ",
	'ハ': "ﾊ", 'ヒ': "ﾋ", 'フ': "ﾌ", 'ヘ': "ﾍ", 'ホ': "ﾎ",
	'マ': "ﾏ", 'ミ': "ﾐ", 'ム': "ﾑ", 'メ': "ﾒ", 'モ': "ﾓ",
	'ヤ': "ﾔ", 'ユ': "ﾕ", 'ヨ': "ﾖ",
	'ラ': "ﾗ", 'リ': "ﾘ", 'ル': "ﾙ", 'レ': "ﾚ", 'ロ': "ﾛ",
	'ワ': "ﾜ", 'ヲ': "ｦ", 'ン': "ﾝ",
	'ッ': "ｯ", 'ー': "ｰ",
	'ガ': "ｶﾞ", 'ギ': "ｷﾞ", 'グ': "ｸﾞ", 'ゲ': "ｹﾞ", 'ゴ': "ｺﾞ",
	'ザ': "ｻﾞ", 'ジ': "ｼﾞ", 'ズ': "ｽﾞ", 'ゼ': "ｾﾞ", 'ゾ': "ｿﾞ",
	'ダ': "ﾀﾞ", 'ヂ': "ﾁﾞ", 'ヅ': "ﾂﾞ", 'デ': "ﾃﾞ", 'ド': "ﾄﾞ",
	'バ': "ﾊﾞ", 'ビ': "ﾋﾞ", 'ブ': "ﾌﾞ", 'ベ': "ﾍﾞ", 'ボ': "ﾎﾞ",
	'パ': "ﾊﾟ", 'ピ': "ﾋﾟ", 'プ': "ﾌﾟ", 'ペ': "ﾍﾟ", 'ポ': "ﾎﾟ",
}

func upper(s string) string      { return strings.ToUpper(s) }
func lower(s string) string      { return strings.ToLower(s) }
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Transliterate renders s under the given view. s is assumed to be the
// hiragana-native form produced by the rewrite table.
func Transliterate(mode TransliterationType, s string) string {
	switch mode {
	case Hiragana:
		return s
	case FullKatakana:
		return hiraganaToKatakana(s)
	case HalfKatakana:
		return fullWidthToHalfWidth(hiraganaToKatakana(s))
	case HalfASCII:
		return fullWidthToHalfWidth(s)
	case HalfASCIIUpper:
		return upper(fullWidthToHalfWidth(s))
	case HalfASCIILower:
		return lower(fullWidthToHalfWidth(s))
	case HalfASCIICapitalized:
		return capitalize(fullWidthToHalfWidth(s))
	case FullASCII:
		return halfWidthToFullWidth(s)
	case FullASCIIUpper:
		return upper(halfWidthToFullWidth(s))
	case FullASCIILower:
		return lower(halfWidthToFullWidth(s))
	case FullASCIICapitalized:
		return capitalize(halfWidthToFullWidth(s))
	default:
		return s
	}
}

// GetTransliterations renders s under every TransliterationType in
// canonical order.
func GetTransliterations(s string) []string {
	out := make([]string, int(numTransliterationTypes))
	for i := 0; i < int(numTransliterationTypes); i++ {
		out[i] = Transliterate(TransliterationType(i), s)
	}
	return out
}
