package composer

// ComposerData is an immutable snapshot of everything a downstream
// consumer (conversion, prediction, candidate ranking) needs to read
// from a Composer, taken at a point in time via
// Composer.CreateComposerData. Unlike Composer itself it carries no
// rewrite table or cursor-mutating methods: every query it answers was
// already computed from the same underlying state the live Composer
// used, so two calls against the same ComposerData always agree with
// each other and with the Composer they were snapshotted from.
type ComposerData struct {
	inputMode               TransliterationType
	handwritingCompositions []HandwritingComposition
	stringForPreedit        string
	queryForConversion      string
	queryForPrediction      string
	queryBase               string
	queryExpanded           map[string]bool
	stringForTypeCorrection string
	length                  int
	cursor                  int
	rawString               string
	transliterations        []string
}

func (d ComposerData) GetInputMode() TransliterationType { return d.inputMode }

func (d ComposerData) GetHandwritingCompositions() []HandwritingComposition {
	return d.handwritingCompositions
}

func (d ComposerData) GetStringForPreedit() string { return d.stringForPreedit }

func (d ComposerData) GetQueryForConversion() string { return d.queryForConversion }

func (d ComposerData) GetQueryForPrediction() string { return d.queryForPrediction }

func (d ComposerData) GetQueriesForPrediction() (string, map[string]bool) {
	return d.queryBase, d.queryExpanded
}

func (d ComposerData) GetStringForTypeCorrection() string { return d.stringForTypeCorrection }

func (d ComposerData) GetLength() int { return d.length }

func (d ComposerData) GetCursor() int { return d.cursor }

func (d ComposerData) GetRawString() string { return d.rawString }

func (d ComposerData) GetRawSubString(pos, length int) string {
	runes := []rune(d.rawString)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		return ""
	}
	end := pos + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[pos:end])
}

func (d ComposerData) GetTransliterations() []string { return d.transliterations }

func (d ComposerData) GetSubTransliteration(t TransliterationType, pos, length int) string {
	runes := []rune(d.stringForPreedit)
	if pos < 0 || pos > len(runes) {
		return ""
	}
	end := pos + length
	if end > len(runes) {
		end = len(runes)
	}
	return Transliterate(t, string(runes[pos:end]))
}

func (d ComposerData) GetSubTransliterations(pos, length int) []string {
	out := make([]string, int(numTransliterationTypes))
	for i := range out {
		out[i] = d.GetSubTransliteration(TransliterationType(i), pos, length)
	}
	return out
}
