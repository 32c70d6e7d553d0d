package composer

import (
	"strings"
	"unicode"

	"github.com/username/gokana-ime/internal/table"
)

const maxPreeditLength = 256

// Composer is the top-level state machine: it owns one Composition plus
// the cursor, input-mode, and output-mode state that determine how each
// incoming KeyEvent is interpreted and how the result is rendered.
type Composer struct {
	table   *table.Table
	request *Request
	config  *Config

	composition *Composition

	position             int
	isNewInput           bool
	inputMode            TransliterationType
	outputMode           TransliterationType
	comebackInputMode    TransliterationType
	inputFieldType       InputFieldType
	shiftedSequenceCount int
	sourceText           string
	maxLength            int

	timeoutThresholdMsec int64
	lastKeyTimestampMsec int64

	handwritingCandidates []HandwritingComposition
}

// NewComposer returns a Composer driven by t, with request/config
// defaulted if nil.
func NewComposer(t *table.Table, req *Request, cfg *Config) *Composer {
	if req == nil {
		req = &Request{}
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Composer{
		table:     t,
		request:   req,
		config:    cfg,
		maxLength: maxPreeditLength,
	}
	c.SetInputMode(Hiragana)
	c.Reset()
	return c
}

// Reset clears the composition and restores input/output mode defaults,
// but does not forget the table/request/config.
func (c *Composer) Reset() {
	c.EditErase()
	c.ResetInputMode()
	c.SetOutputMode(Hiragana)
	c.sourceText = ""
	c.timeoutThresholdMsec = c.config.TimeoutThresholdMsec
}

// ResetInputMode reverts the current input mode to whatever mode it
// would "come back" to once any temporary mode override lapses.
func (c *Composer) ResetInputMode() {
	c.SetInputMode(c.comebackInputMode)
}

// SetTable swaps the active rewrite table; already composed text is
// left as-is.
func (c *Composer) SetTable(t *table.Table) {
	c.table = t
	if c.composition != nil {
		c.composition.SetTable(t)
	}
}

// SetRequest replaces the per-session request object.
func (c *Composer) SetRequest(req *Request) {
	if req == nil {
		req = &Request{}
	}
	c.request = req
}

// SetConfig replaces the persistent config object and re-applies its
// timeout threshold.
func (c *Composer) SetConfig(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c.config = cfg
	c.timeoutThresholdMsec = cfg.TimeoutThresholdMsec
}

// ReloadConfig re-applies the current config's timeout threshold,
// mirroring callers that mutate *Config in place rather than calling
// SetConfig with a new pointer.
func (c *Composer) ReloadConfig() {
	c.timeoutThresholdMsec = c.config.TimeoutThresholdMsec
}

// Empty reports whether the composer currently holds no text.
func (c *Composer) Empty() bool {
	return c.composition == nil || c.composition.Empty()
}

func transliterationToTransliterator(t TransliterationType) Transliterator {
	switch t {
	case FullKatakana:
		return TransliteratorFullKatakana
	case HalfKatakana:
		return TransliteratorHalfKatakana
	case HalfASCII, HalfASCIIUpper, HalfASCIILower, HalfASCIICapitalized:
		return TransliteratorHalfASCII
	case FullASCII, FullASCIIUpper, FullASCIILower, FullASCIICapitalized:
		return TransliteratorFullASCII
	default:
		return TransliteratorHiragana
	}
}

// SetInputMode sets the current and comeback input mode together
// (a non-temporary switch), resets shift tracking, and marks the next
// keystroke as a new-input boundary.
func (c *Composer) SetInputMode(mode TransliterationType) {
	c.comebackInputMode = mode
	c.inputMode = mode
	c.shiftedSequenceCount = 0
	c.isNewInput = true
	if c.composition == nil {
		c.composition = NewComposition(c.table, transliterationToTransliterator(mode))
	} else {
		c.composition.SetInputMode(transliterationToTransliterator(mode))
	}
}

// SetTemporaryInputMode switches only the current input mode, keeping
// the previous mode as comebackInputMode so a later ResetInputMode (or
// AutoSwitchMode) can restore it.
func (c *Composer) SetTemporaryInputMode(mode TransliterationType) {
	c.comebackInputMode = c.inputMode
	c.inputMode = mode
	c.shiftedSequenceCount = 0
	c.isNewInput = true
}

// UpdateInputMode re-derives the input mode from the transliterator
// governing the text immediately around the cursor, falling back to the
// comeback mode when the cursor doesn't sit inside a single
// transliterator's span.
//
// Decision: when the cursor sits exactly between two chunks that happen
// to share the same transliterator, that shared transliterator is
// adopted as the new input mode (matching the upstream behavior this
// package mirrors) rather than always falling back to the comeback mode.
func (c *Composer) UpdateInputMode() {
	if c.position == 0 || c.composition == nil {
		c.SetInputMode(c.comebackInputMode)
		return
	}
	length := c.composition.Length()
	left := c.composition.TransliteratorAt(c.position - 1)
	if c.position >= length {
		c.applyTransliteratorAsMode(left)
		return
	}
	right := c.composition.TransliteratorAt(c.position)
	if left == right {
		c.applyTransliteratorAsMode(left)
		return
	}
	c.SetInputMode(c.comebackInputMode)
}

func (c *Composer) applyTransliteratorAsMode(t Transliterator) {
	switch t {
	case TransliteratorFullKatakana:
		c.SetInputMode(FullKatakana)
	case TransliteratorHalfKatakana:
		c.SetInputMode(HalfKatakana)
	case TransliteratorHalfASCII:
		c.SetInputMode(HalfASCII)
	case TransliteratorFullASCII:
		c.SetInputMode(FullASCII)
	default:
		c.SetInputMode(Hiragana)
	}
}

// ToggleInputMode flips between HIRAGANA and HALF_ASCII.
func (c *Composer) ToggleInputMode() {
	if c.inputMode == Hiragana {
		c.SetInputMode(HalfASCII)
	} else {
		c.SetInputMode(Hiragana)
	}
}

// GetInputMode returns the currently active input mode.
func (c *Composer) GetInputMode() TransliterationType { return c.inputMode }

// GetComebackInputMode returns the mode a temporary override will
// revert to.
func (c *Composer) GetComebackInputMode() TransliterationType { return c.comebackInputMode }

// GetOutputMode returns the forced display transliterator, if any.
func (c *Composer) GetOutputMode() TransliterationType { return c.outputMode }

// SetOutputMode forces every currently composed chunk to render under
// mode and moves the cursor to the end, matching the "committing to a
// script" semantics used after URL/address detection.
func (c *Composer) SetOutputMode(mode TransliterationType) {
	c.outputMode = mode
	if c.composition != nil {
		c.composition.SetTransliteratorRange(0, c.composition.Length(), transliterationToTransliterator(mode))
		c.position = c.composition.Length()
	}
}

// SetInputFieldType narrows composer behavior for number/tel/password
// fields.
func (c *Composer) SetInputFieldType(t InputFieldType) { c.inputFieldType = t }

// GetInputFieldType returns the current field-type restriction.
func (c *Composer) GetInputFieldType() InputFieldType { return c.inputFieldType }

// GetLength returns the composition's character length.
func (c *Composer) GetLength() int {
	if c.composition == nil {
		return 0
	}
	return c.composition.Length()
}

// GetCursor returns the current cursor position.
func (c *Composer) GetCursor() int { return c.position }

// EditErase clears the composition and resets the cursor.
func (c *Composer) EditErase() {
	if c.composition != nil {
		c.composition.Erase()
	}
	c.position = 0
}

// DeleteAt removes the character at pos, adjusting the cursor if it sat
// to the right of the deleted character.
func (c *Composer) DeleteAt(pos int) {
	if c.composition == nil {
		return
	}
	c.composition.DeleteAt(pos)
	if c.position > pos {
		c.position--
	}
}

// Delete removes the character under the cursor.
func (c *Composer) Delete() {
	c.DeleteAt(c.position)
	c.UpdateInputMode()
}

// DeleteRange removes length characters starting at pos.
func (c *Composer) DeleteRange(pos, length int) {
	for i := 0; i < length; i++ {
		c.DeleteAt(pos)
	}
}

// Backspace removes the character immediately left of the cursor. The
// cursor is decremented BEFORE UpdateInputMode runs so the mode
// recalculation sees both the surviving left-hand character and the one
// about to be deleted, matching how a real typist perceives the
// boundary.
func (c *Composer) Backspace() {
	if c.position == 0 {
		return
	}
	c.position--
	c.UpdateInputMode()
	if c.composition != nil {
		c.composition.DeleteAt(c.position)
	}
}

// MoveCursorLeft moves the cursor one character left.
func (c *Composer) MoveCursorLeft() {
	if c.position > 0 {
		c.position--
	}
	c.UpdateInputMode()
}

// MoveCursorRight moves the cursor one character right.
func (c *Composer) MoveCursorRight() {
	if c.position < c.GetLength() {
		c.position++
	}
	c.UpdateInputMode()
}

// MoveCursorToBeginning moves the cursor to position 0 and reverts to
// the comeback input mode unconditionally.
func (c *Composer) MoveCursorToBeginning() {
	c.position = 0
	c.SetInputMode(c.comebackInputMode)
}

// MoveCursorToEnd moves the cursor to the end and reverts to the
// comeback input mode unconditionally.
func (c *Composer) MoveCursorToEnd() {
	c.position = c.GetLength()
	c.SetInputMode(c.comebackInputMode)
}

// MoveCursorTo moves the cursor to pos, clamped to [0, GetLength()].
func (c *Composer) MoveCursorTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > c.GetLength() {
		pos = c.GetLength()
	}
	c.position = pos
	c.UpdateInputMode()
}

// GetPreedit returns the three-way split (left of cursor, under cursor,
// right of cursor) of the current display string.
func (c *Composer) GetPreedit() (left, focused, right string) {
	if c.composition == nil {
		return "", "", ""
	}
	return c.composition.GetPreedit(c.position)
}

// GetStringForPreedit is the concatenation of GetPreedit's three parts,
// narrowed to half-width ASCII when the current input field type is
// NUMBER, TEL, or PASSWORD: such fields expect ASCII digits/punctuation
// even though the composition itself may hold full-width glyphs.
func (c *Composer) GetStringForPreedit() string {
	l, f, r := c.GetPreedit()
	s := l + f + r
	if c.needsHalfWidthNarrowing() {
		return fullWidthToHalfWidth(s)
	}
	return s
}

func (c *Composer) needsHalfWidthNarrowing() bool {
	switch c.inputFieldType {
	case Number, Tel, Password:
		return true
	default:
		return false
	}
}

// GetStringForSubmission returns the text as it should be committed to
// the target application: identical to GetStringForPreedit, since this
// composer does not implement a separate conversion/candidate stage.
func (c *Composer) GetStringForSubmission() string {
	return c.GetStringForPreedit()
}

// GetRawString returns the verbatim typed text, with no rewrite-table
// transformation applied.
func (c *Composer) GetRawString() string {
	if c.composition == nil {
		return ""
	}
	var b strings.Builder
	for _, ch := range c.composition.chunks {
		b.WriteString(ch.raw)
	}
	return b.String()
}

// GetRawSubString returns length characters of the raw string starting
// at character position pos.
func (c *Composer) GetRawSubString(pos, length int) string {
	runes := []rune(c.GetRawString())
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

// GetTransliterations renders the current preedit string under every
// TransliterationType.
func (c *Composer) GetTransliterations() []string {
	return GetTransliterations(c.GetStringForPreedit())
}

// GetSubTransliteration renders length characters starting at pos of the
// composition under a single forced transliterator, then applies t's own
// case/width transform.
func (c *Composer) GetSubTransliteration(t TransliterationType, pos, length int) string {
	runes := []rune(c.GetStringWithTransliteratorView(t))
	if pos < 0 || pos > len(runes) {
		return ""
	}
	end := pos + length
	if end > len(runes) {
		end = len(runes)
	}
	return Transliterate(t, string(runes[pos:end]))
}

// GetSubTransliterations renders the same substring under every
// TransliterationType.
func (c *Composer) GetSubTransliterations(pos, length int) []string {
	out := make([]string, int(numTransliterationTypes))
	for i := range out {
		out[i] = c.GetSubTransliteration(TransliterationType(i), pos, length)
	}
	return out
}

// GetStringWithTransliteratorView renders the whole composition under a
// single forced transliterator, bypassing each chunk's own.
func (c *Composer) GetStringWithTransliteratorView(t TransliterationType) string {
	if c.composition == nil {
		return ""
	}
	return c.composition.GetStringWithTransliterator(transliterationToTransliterator(t))
}

// EnableInsert reports whether the composition has room for another
// character.
func (c *Composer) EnableInsert() bool {
	return c.GetLength() < c.maxLength
}

// ProcessCompositionInput inserts raw text at the cursor via the rewrite
// table and advances the cursor by however many characters landed.
func (c *Composer) ProcessCompositionInput(raw string) {
	if !c.EnableInsert() || c.composition == nil {
		return
	}
	n := c.composition.InsertInput(c.position, raw)
	c.position += n
	c.isNewInput = false
}

// InsertCharacter feeds a single already-decoded character (or special
// key sequence such as "{<}") through the composition.
func (c *Composer) InsertCharacter(key string) {
	c.ProcessCompositionInput(key)
}

// InsertCommandCharacter funnels an internal command through the same
// path as ordinary character input, since REWIND and STOP_KEY_TOGGLING
// are just reserved rewrite-table special keys rather than separate
// code paths.
func (c *Composer) InsertCommandCharacter(cmd InternalCommand) {
	switch cmd {
	case CommandRewind:
		c.InsertCharacter(c.table.ParseSpecialKey(table.SpecialRewind))
	case CommandStopKeyToggling:
		c.InsertCharacter(c.table.ParseSpecialKey(table.SpecialStopKeyToggling))
	}
}

// Rewind drives the chunk at the cursor through its toggle-cycle
// successor (mobile flick-style input, when the same key is tapped again
// within the timeout) or undoes its last rule application. It is sugar
// over ProcessCompositionInput with REWIND's reserved special key, not a
// separate code path through Composition.
func (c *Composer) Rewind() {
	c.InsertCommandCharacter(CommandRewind)
}

// InsertCharacterPreedit inserts each rune of input individually,
// matching the original's character-at-a-time preedit insertion used by
// IME frontends that hand over whole strings (e.g. paste, IME
// reconversion).
func (c *Composer) InsertCharacterPreedit(input string) {
	for _, r := range input {
		c.ProcessCompositionInput(string(r))
	}
}

// SetPreeditTextForTestOnly seeds the composition with input verbatim,
// one chunk per codepoint, bypassing the rewrite table entirely. If
// input looks like plain lowercase ASCII, the input mode is faked to
// HALF_ASCII so tests exercising mode-dependent queries see consistent
// results.
func (c *Composer) SetPreeditTextForTestOnly(input string) {
	if c.composition == nil {
		c.composition = NewComposition(c.table, TransliteratorRaw)
	}
	c.composition.SeedRawOneCodepointPerChunk(input, TransliteratorRaw)
	c.position = c.composition.Length()
	if isAllLowerASCII(input) {
		c.SetTemporaryInputMode(HalfASCII)
	}
}

func isAllLowerASCII(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || (!unicode.IsLower(r) && !unicode.IsDigit(r) && !unicode.IsPunct(r) && r != ' ') {
			return false
		}
	}
	return true
}

// HandwritingComposition pairs a recognized candidate string with the
// raw composition string (typically one per recognition alternative)
// used to seed a composer from handwriting input.
type HandwritingComposition struct {
	CompositionString string
	Score             float64
}

// SetCompositionsForHandwriting resets the composer and seeds it from
// the first (highest scoring) handwriting candidate's composition
// string, using the same one-codepoint-per-chunk technique as
// SetPreeditTextForTestOnly. The full candidate list is retained for
// callers that want to inspect runner-up alternatives.
func (c *Composer) SetCompositionsForHandwriting(candidates []HandwritingComposition) {
	c.Reset()
	c.handwritingCandidates = candidates
	if len(candidates) == 0 {
		return
	}
	if c.composition == nil {
		c.composition = NewComposition(c.table, TransliteratorRaw)
	}
	c.composition.SeedRawOneCodepointPerChunk(candidates[0].CompositionString, TransliteratorRaw)
	c.position = c.composition.Length()
}

// GetHandwritingCompositions returns the candidate list last passed to
// SetCompositionsForHandwriting.
func (c *Composer) GetHandwritingCompositions() []HandwritingComposition {
	return c.handwritingCandidates
}

// InsertCharacterKeyEvent processes one physical keystroke end to end:
// timeout handling, mode switching, rewrite-table lookup, temporary
// mode application, and auto mode switching. Returns false only if the
// composition is already full; every other key event returns true.
func (c *Composer) InsertCharacterKeyEvent(key KeyEvent, nowMsec int64) bool {
	if !c.EnableInsert() {
		return false
	}

	if c.timeoutThresholdMsec > 0 && c.lastKeyTimestampMsec > 0 &&
		nowMsec-c.lastKeyTimestampMsec >= c.timeoutThresholdMsec {
		c.InsertCommandCharacter(CommandStopKeyToggling)
	}
	c.lastKeyTimestampMsec = nowMsec

	if key.Mode != nil && *key.Mode != c.inputMode {
		c.SetInputMode(*key.Mode)
	}

	if !key.HasKeyCode() {
		if key.Modifiers.HasShift() {
			c.SetInputMode(c.comebackInputMode)
			return true
		}
		return true
	}

	raw := c.table.ParseSpecialKey(key.KeyCode)
	c.ProcessCompositionInput(raw)
	c.ApplyTemporaryInputMode(key.KeyCode, key.Modifiers.HasCapsLocked())

	if c.comebackInputMode == c.inputMode {
		c.AutoSwitchMode()
	}
	return true
}

// ApplyTemporaryInputMode implements the shift-key temporary mode rule:
// a shifted alphabetic key sequence switches briefly into half-width
// ASCII (or full-width katakana, per config). Under ASCII_INPUT_MODE an
// unshifted letter reverts to the comeback mode only if more than one
// shifted letter was typed in a row before it; under KATAKANA_INPUT_MODE
// any unshifted letter reverts. A non-letter ASCII key resets the
// shifted-letter count, and a non-ASCII key reverts to the comeback mode.
func (c *Composer) ApplyTemporaryInputMode(input string, capsLocked bool) {
	if !isSingleASCIIByte(input) {
		if c.inputMode != c.comebackInputMode {
			c.SetInputMode(c.comebackInputMode)
		}
		return
	}
	ch := input[0]
	isUpper := ch >= 'A' && ch <= 'Z'
	isLower := ch >= 'a' && ch <= 'z'
	if !isUpper && !isLower {
		c.shiftedSequenceCount = 0
		return
	}

	shifted := isUpper
	if capsLocked {
		shifted = !shifted
	}

	switch c.config.ShiftKeyModeSwitch {
	case ShiftModeASCII:
		if shifted {
			if c.inputMode != HalfASCII && c.inputMode != FullASCII {
				c.SetTemporaryInputMode(HalfASCII)
			}
			c.shiftedSequenceCount++
		} else {
			if c.shiftedSequenceCount > 1 {
				c.SetInputMode(c.comebackInputMode)
			}
			c.shiftedSequenceCount = 0
		}
	case ShiftModeKatakana:
		if shifted {
			if c.inputMode == Hiragana {
				c.SetTemporaryInputMode(FullKatakana)
			}
			c.shiftedSequenceCount++
		} else {
			c.SetInputMode(c.comebackInputMode)
			c.shiftedSequenceCount = 0
		}
	default:
		c.shiftedSequenceCount = 0
	}
}

func isSingleASCIIByte(s string) bool {
	return len(s) == 1 && s[0] < unicode.MaxASCII
}

// GetQueryForConversion returns the FIX-trim string, number-transformed
// and narrowed to half-width ASCII, the form handed to a downstream
// conversion engine.
func (c *Composer) GetQueryForConversion() string {
	if c.composition == nil {
		return ""
	}
	query := c.composition.GetStringWithTrimMode(Fix)
	if transformed, ok := TransformCharactersForNumbers(query); ok {
		query = transformed
	}
	return fullWidthToHalfWidth(query)
}

// GetQueryForPrediction applies the ASIS-vs-TRIM heuristic and the
// number-character transform to decide what to send a prediction
// engine.
func (c *Composer) GetQueryForPrediction() string {
	if c.composition == nil {
		return ""
	}
	if c.inputMode == HalfASCII {
		return c.composition.GetStringWithTrimMode(Asis)
	}
	if c.inputMode == FullASCII {
		asis := c.composition.GetStringWithTrimMode(Asis)
		return fullWidthToHalfWidth(asis)
	}
	asisQuery := c.composition.GetStringWithTrimMode(Asis)
	trimmedQuery := c.composition.GetStringWithTrimMode(Trim)
	base := getBaseQueryForPrediction(asisQuery, trimmedQuery)
	if transformed, ok := TransformCharactersForNumbers(base); ok {
		base = transformed
	}
	return fullWidthToHalfWidth(base)
}

// getBaseQueryForPrediction decides between the ASIS and TRIM renderings
// of the current composition for prediction purposes. ASIS is kept when
// both have the same length or when the part of ASIS beyond TRIM is not
// pure alphabet (kana input). For an alphabetic tail: with an empty TRIM,
// ASIS is kept if it is all alphabet and TRIM is used otherwise; with a
// non-empty TRIM, ASIS is kept if TRIM's last character is alphabet and
// TRIM is used otherwise.
func getBaseQueryForPrediction(asis, trimmed string) string {
	asisRunes := []rune(asis)
	trimmedRunes := []rune(trimmed)
	if len(asisRunes) == len(trimmedRunes) {
		return asis
	}
	tail := string(asisRunes[len(trimmedRunes):])
	if !isPureAlphabet(tail) {
		return asis
	}
	if len(trimmedRunes) == 0 {
		if isPureAlphabet(asis) {
			return asis
		}
		return trimmed
	}
	last := trimmedRunes[len(trimmedRunes)-1]
	if isAlphabetRune(last) {
		return asis
	}
	return trimmed
}

func isPureAlphabet(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isAlphabetRune(r) {
			return false
		}
	}
	return true
}

func isAlphabetRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// modifierRemovalMap lists, for a trailing asis character, which
// expanded prediction candidates become implausible once that character
// was typed with a voicing/semi-voicing modifier key. Grounded exactly
// on the upstream table: typing small-form or voiced kana rules out the
// corresponding plain-kana expansion.
var modifierRemovalMap = map[rune][]string{
	'ぁ': {"あ"}, 'ぃ': {"い"}, 'ぅ': {"う", "ゔ"}, 'ゔ': {"う", "ぅ"}, 'ぇ': {"え"}, 'ぉ': {"お"},
	'が': {"か"}, 'ぎ': {"き"}, 'ぐ': {"く"}, 'げ': {"け"}, 'ご': {"こ"},
	'ざ': {"さ"}, 'じ': {"し"}, 'ず': {"す"}, 'ぜ': {"せ"}, 'ぞ': {"そ"},
	'だ': {"た"}, 'ぢ': {"ち"}, 'づ': {"つ", "っ"}, 'っ': {"つ", "づ"}, 'で': {"て"}, 'ど': {"と"},
	'ば': {"は", "ぱ"}, 'ぱ': {"は", "ば"}, 'び': {"ひ", "ぴ"}, 'ぴ': {"ひ", "び"},
	'ぶ': {"ふ", "ぷ"}, 'ぷ': {"ふ", "ぶ"}, 'べ': {"へ", "ぺ"}, 'ぺ': {"へ", "べ"},
	'ぼ': {"ほ", "ぽ"}, 'ぽ': {"ほ", "ぼ"},
	'ゃ': {"や"}, 'ゅ': {"ゆ"}, 'ょ': {"よ"}, 'ゎ': {"わ"},
}

// removeModifierExpansions strips, from expanded, every candidate the
// modifier-removal map says is implausible given the trailing asis
// character beyond base.
func removeModifierExpansions(asis, base string, expanded map[string]bool) {
	asisRunes := []rune(asis)
	baseRunes := []rune(base)
	if len(asisRunes) <= len(baseRunes) {
		return
	}
	tail := asisRunes[len(baseRunes):]
	for _, r := range tail {
		for _, victim := range modifierRemovalMap[r] {
			delete(expanded, victim)
		}
	}
}

// GetQueriesForPrediction returns the base query plus the set of
// plausible completions of its trailing ambiguous chunk, for half/full
// ASCII modes the completion set is always empty since there is no
// kana ambiguity to expand.
func (c *Composer) GetQueriesForPrediction() (base string, expanded map[string]bool) {
	if c.composition == nil {
		return "", map[string]bool{}
	}
	if c.inputMode == HalfASCII || c.inputMode == FullASCII {
		return c.GetQueryForPrediction(), map[string]bool{}
	}
	base, expanded = c.composition.GetExpandedStrings()
	asis := c.composition.GetStringWithTrimMode(Asis)
	removeModifierExpansions(asis, base, expanded)
	return fullWidthToHalfWidth(base), expanded
}

// GetStringForTypeCorrection returns the best-effort corrected string
// for the current composition; this package does not implement a typing
// corrector, so it degrades to the ordinary preedit string.
func (c *Composer) GetStringForTypeCorrection() string {
	return c.GetStringForPreedit()
}

// AutoSwitchMode applies the configured URL/address-aware mode
// switching rule: once the half-width-ASCII rendering of the
// composition matches a trigger suffix like "@" or "://", the display
// (and input) mode commits to ASCII so the rest of the address doesn't
// flicker back into kana.
func (c *Composer) AutoSwitchMode() {
	if !c.config.UseAutoIMETurnOff {
		return
	}
	if c.config.PreeditMethod != PreeditRoman {
		return
	}
	key := c.GetStringWithTransliteratorView(HalfASCII)
	rule, ok := lookupModeSwitchRule(key)
	if !ok {
		return
	}
	c.outputMode = applyDisplayAction(rule.display, c.outputMode)
	if rule.display != actionNoChange {
		c.SetOutputMode(c.outputMode)
	}
	switch rule.input {
	case actionRevertToPrevious:
		c.SetInputMode(c.comebackInputMode)
	case actionPreferredAlphanumeric, actionHalfAlphanumeric:
		if c.inputMode != HalfASCII {
			c.SetTemporaryInputMode(HalfASCII)
		}
	case actionFullAlphanumeric:
		if c.inputMode != FullASCII {
			c.SetTemporaryInputMode(FullASCII)
		}
	}
}

// ShouldCommitHead reports whether a constrained field type (password,
// number, phone) requires committing everything but the last few
// characters immediately, and if so how many characters to commit.
func (c *Composer) ShouldCommitHead() (lengthToCommit int, should bool) {
	var maxRemaining int
	switch c.inputFieldType {
	case Password:
		maxRemaining = 1
	case Number, Tel:
		maxRemaining = 0
	default:
		return 0, false
	}
	length := c.GetLength()
	if length > maxRemaining {
		return length - maxRemaining, true
	}
	return 0, false
}

// SetSourceText records the text this composition was derived from
// (e.g. the original text under reconversion), for callers that display
// a `source -> preedit` relationship.
func (c *Composer) SetSourceText(s string) { c.sourceText = s }

// SourceText returns the text set by SetSourceText.
func (c *Composer) SourceText() string { return c.sourceText }

// IsToggleable reports whether the chunk at the cursor can still be
// cycled: the cursor must not be mid-new-input and the chunk itself
// must participate in a rewrite-table toggle cycle.
func (c *Composer) IsToggleable() bool {
	if c.isNewInput || c.composition == nil {
		return false
	}
	return c.composition.IsToggleable(c.position)
}

// CreateComposerData snapshots the composer's query surface into an
// immutable value usable after the composer itself has moved on (e.g.
// handed to a background prediction worker).
func (c *Composer) CreateComposerData() ComposerData {
	queryBase, queryExpanded := c.GetQueriesForPrediction()
	return ComposerData{
		inputMode:               c.inputMode,
		handwritingCompositions: append([]HandwritingComposition(nil), c.handwritingCandidates...),
		stringForPreedit:        c.GetStringForPreedit(),
		queryForConversion:      c.GetQueryForConversion(),
		queryForPrediction:      c.GetQueryForPrediction(),
		queryBase:               queryBase,
		queryExpanded:           queryExpanded,
		stringForTypeCorrection: c.GetStringForTypeCorrection(),
		length:                  c.GetLength(),
		cursor:                  c.position,
		rawString:               c.GetRawString(),
		transliterations:        c.GetTransliterations(),
	}
}
