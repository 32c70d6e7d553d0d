package composer

import (
	"github.com/username/gokana-ime/internal/table"
)

// maxCompositionLength caps the number of characters a composition will
// hold, mirroring the original's kMaxPreeditLength.
const maxCompositionLength = 256

// Composition is an ordered sequence of Chunks. It owns no cursor of its
// own; callers (Composer) pass a character position into each method
// that needs one.
type Composition struct {
	table         *table.Table
	chunks        []*Chunk
	inputTranslit Transliterator
}

// NewComposition returns an empty composition driven by t, with new
// chunks defaulting to the given transliterator.
func NewComposition(t *table.Table, translit Transliterator) *Composition {
	return &Composition{table: t, inputTranslit: translit}
}

// SetTable swaps the rewrite table used for subsequent input; already
// composed chunks are unaffected.
func (c *Composition) SetTable(t *table.Table) {
	c.table = t
}

// SetInputMode changes the transliterator newly created chunks pick up.
func (c *Composition) SetInputMode(translit Transliterator) {
	c.inputTranslit = translit
}

// Length returns the composition's total character length under the
// ASIS view.
func (c *Composition) Length() int {
	n := 0
	for _, ch := range c.chunks {
		n += ch.Length()
	}
	return n
}

// Empty reports whether the composition holds no chunks.
func (c *Composition) Empty() bool {
	return len(c.chunks) == 0
}

// InsertInput inserts raw text at character position pos (ASIS view),
// splitting the chunk under pos if necessary and feeding the remainder
// through the rewrite table one chunk at a time. It returns the change
// in the composition's displayed character length, not the number of
// runes consumed: "ka" typed into an empty composition returns 1 (か).
func (c *Composition) InsertInput(pos int, raw string) int {
	if n, handled := c.insertCommand(pos, raw); handled {
		return n
	}
	c.splitChunkAt(pos)
	left, right := c.chunksBefore(pos), c.chunksFrom(pos)

	remaining := raw
	var tail *Chunk
	if pos > 0 && len(left) > 0 {
		tail = left[len(left)-1]
	}

	inserted := 0
	budget := maxCompositionLength - c.Length()
	for remaining != "" && budget > 0 {
		if tail == nil || tail.closedToInput() {
			tail = NewChunk(c.inputTranslit)
			left = append(left, tail)
		}
		before := tail.Length()
		consumed, status := tail.AddInput(c.table, firstRune(remaining))
		if consumed == 0 {
			if status != Sealed {
				break
			}
			// The chunk sealed on its own pending tail without taking
			// the rune (AddInput's pending-flush case); retry the same
			// rune against a fresh chunk instead of dropping it.
			tail = nil
			continue
		}
		remaining = remaining[consumed:]
		inserted += tail.Length() - before
		budget = maxCompositionLength - (c.lengthOf(left) + c.lengthOf(right))
		if status == Sealed {
			tail = nil
		}
	}

	c.chunks = append(left, right...)
	return inserted
}

// insertCommand intercepts the reserved REWIND and STOP_KEY_TOGGLING
// codepoints before they reach the general insertion loop below: these
// always arrive alone (InsertCommandCharacter never mixes them with
// ordinary text) and must never be looked up as rewrite-table input or
// committed as visible characters. It reports whether raw was one of
// them, and if so the character-count delta the caller should apply to
// its cursor.
func (c *Composition) insertCommand(pos int, raw string) (int, bool) {
	runes := []rune(raw)
	if len(runes) != 1 || c.table == nil {
		return 0, false
	}
	switch runes[0] {
	case c.table.RewindRune():
		return c.applyRewind(pos), true
	case c.table.StopTogglingRune():
		c.applyStopToggling(pos)
		return 0, true
	}
	return 0, false
}

// chunkIndexContaining returns the index of the chunk covering character
// position pos under the ASIS view, or -1 if pos falls outside every
// chunk.
func (c *Composition) chunkIndexContaining(pos int) int {
	if pos < 0 {
		return -1
	}
	acc := 0
	for i, ch := range c.chunks {
		n := ch.Length()
		if pos < acc+n {
			return i
		}
		acc += n
	}
	return -1
}

// applyRewind undoes (or toggle-cycle-advances, per Chunk.Rewind) the
// chunk immediately left of pos, removing it from the composition
// entirely if the rewind collapses it back to empty.
func (c *Composition) applyRewind(pos int) int {
	idx := c.chunkIndexContaining(pos - 1)
	if idx < 0 {
		return 0
	}
	ch := c.chunks[idx]
	before := ch.Length()
	if !ch.Rewind(c.table) {
		return 0
	}
	after := ch.Length()
	if ch.Empty() {
		c.chunks = append(c.chunks[:idx], c.chunks[idx+1:]...)
	}
	return after - before
}

// applyStopToggling flushes the toggle state of the chunk immediately
// left of pos, if any.
func (c *Composition) applyStopToggling(pos int) {
	if idx := c.chunkIndexContaining(pos - 1); idx >= 0 {
		c.chunks[idx].StopToggling()
	}
}

func firstRune(s string) string {
	for i := range s {
		if i > 0 {
			return s[:i]
		}
	}
	return s
}

func (c *Composition) lengthOf(chunks []*Chunk) int {
	n := 0
	for _, ch := range chunks {
		n += ch.Length()
	}
	return n
}

// closedToInput reports whether this chunk has already resolved (via a
// sealing rule or a verbatim commit) and so cannot absorb more input; a
// brand new empty chunk is never closed.
func (c *Chunk) closedToInput() bool {
	return !c.Empty() && c.pending == ""
}

func (c *Composition) chunksBefore(pos int) []*Chunk {
	acc := 0
	out := make([]*Chunk, 0, len(c.chunks))
	for _, ch := range c.chunks {
		if acc >= pos {
			break
		}
		out = append(out, ch)
		acc += ch.Length()
	}
	return out
}

func (c *Composition) chunksFrom(pos int) []*Chunk {
	acc := 0
	for i, ch := range c.chunks {
		if acc >= pos {
			return c.chunks[i:]
		}
		acc += ch.Length()
	}
	return nil
}

// splitChunkAt ensures pos lands on a chunk boundary, splitting the
// chunk straddling it if necessary.
func (c *Composition) splitChunkAt(pos int) {
	acc := 0
	for i, ch := range c.chunks {
		n := ch.Length()
		if pos > acc && pos < acc+n {
			right := ch.Split(pos - acc)
			rest := append([]*Chunk{right}, c.chunks[i+1:]...)
			c.chunks = append(c.chunks[:i+1], rest...)
			return
		}
		acc += n
	}
}

// DeleteAt removes the character at position pos (ASIS view).
func (c *Composition) DeleteAt(pos int) {
	if pos < 0 || pos >= c.Length() {
		return
	}
	c.splitChunkAt(pos)
	c.splitChunkAt(pos + 1)
	acc := 0
	for i, ch := range c.chunks {
		n := ch.Length()
		if acc == pos && n > 0 {
			c.chunks = append(c.chunks[:i], c.chunks[i+1:]...)
			return
		}
		acc += n
	}
}

// Erase clears the composition entirely.
func (c *Composition) Erase() {
	c.chunks = nil
}

// ConvertPosition maps a character offset expressed under fromView into
// the equivalent offset under toView (TRIM vs ASIS differ in length
// whenever a chunk has outstanding pending text).
func (c *Composition) ConvertPosition(pos int, fromMode, toMode TrimMode) int {
	acc := 0
	accOther := 0
	for _, ch := range c.chunks {
		var lenFrom, lenTo int
		switch fromMode {
		case Trim:
			lenFrom = len([]rune(ch.stringTrim()))
		default:
			lenFrom = len([]rune(ch.stringASIS()))
		}
		switch toMode {
		case Trim:
			lenTo = len([]rune(ch.stringTrim()))
		default:
			lenTo = len([]rune(ch.stringASIS()))
		}
		if pos <= acc+lenFrom {
			frac := pos - acc
			if frac > lenTo {
				frac = lenTo
			}
			return accOther + frac
		}
		acc += lenFrom
		accOther += lenTo
	}
	return accOther
}

// GetStringWithTrimMode renders the whole composition under mode, each
// chunk still passing through its own transliterator (NoTransliteration
// chunks excepted), matching GetString's rendering for the ASIS case.
func (c *Composition) GetStringWithTrimMode(mode TrimMode) string {
	var b []byte
	for _, ch := range c.chunks {
		b = append(b, c.renderChunkMode(ch, mode)...)
	}
	return string(b)
}

// GetString renders the composition's ASIS view under each chunk's own
// transliterator.
func (c *Composition) GetString() string {
	return c.GetStringWithTrimMode(Asis)
}

// GetStringWithTransliterator renders the whole composition under a
// single forced transliterator, overriding every chunk's own.
func (c *Composition) GetStringWithTransliterator(t Transliterator) string {
	var b []byte
	for _, ch := range c.chunks {
		b = append(b, Transliterate(transliteratorToType(t), ch.stringASIS())...)
	}
	return string(b)
}

func (c *Composition) renderChunk(ch *Chunk) string {
	return c.renderChunkMode(ch, Asis)
}

func (c *Composition) renderChunkMode(ch *Chunk, mode TrimMode) string {
	var text string
	switch mode {
	case Trim:
		text = ch.stringTrim()
	case Fix:
		text = ch.stringFix()
	default:
		text = ch.stringASIS()
	}
	if ch.attributes&table.NoTransliteration != 0 {
		return text
	}
	return Transliterate(transliteratorToType(ch.transliterator), text)
}

func transliteratorToType(t Transliterator) TransliterationType {
	switch t {
	case TransliteratorFullKatakana:
		return FullKatakana
	case TransliteratorHalfKatakana:
		return HalfKatakana
	case TransliteratorHalfASCII:
		return HalfASCII
	case TransliteratorFullASCII:
		return FullASCII
	default:
		return Hiragana
	}
}

// GetExpandedStrings returns the composition's committed string up to
// (but not including) the final chunk's pending tail, plus the set of
// strings that tail's pending text could still expand into: its
// tentative resolution (ambiguous) plus the toggle-chain successors of
// the rule registered for the pending text. Rules that merely have the
// pending text as a longer prefix (e.g. "na" for pending "n") are not
// added. Only the LAST chunk can expand: every earlier chunk is already
// sealed.
func (c *Composition) GetExpandedStrings() (base string, expanded map[string]bool) {
	expanded = make(map[string]bool)
	if len(c.chunks) == 0 {
		return "", expanded
	}
	for _, ch := range c.chunks[:len(c.chunks)-1] {
		base += c.renderChunk(ch)
	}
	last := c.chunks[len(c.chunks)-1]
	base += last.conversion
	if last.pending == "" {
		return base, expanded
	}
	expanded[last.ambiguous] = true
	if rule := c.table.Lookup(last.pending); rule.Exact != nil {
		cur := rule.Exact
		for {
			next, ok := c.table.NextRuleFor(cur)
			if !ok {
				break
			}
			expanded[next.Result] = true
			cur = &next
		}
	}
	return base, expanded
}

// GetPreedit splits the composition's display string into three parts
// relative to cursor position pos, applying the number-character
// transform across the concatenation and re-splitting if it fired.
func (c *Composition) GetPreedit(pos int) (left, focused, right string) {
	full := c.GetString()
	return c.splitAt(full, pos)
}

func (c *Composition) splitAt(full string, pos int) (left, focused, right string) {
	runes := []rune(full)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	focusLen := 0
	if pos < len(runes) {
		focusLen = 1
	}
	left = string(runes[:pos])
	end := pos + focusLen
	if end > len(runes) {
		end = len(runes)
	}
	focused = string(runes[pos:end])
	right = string(runes[end:])

	if transformed, ok := TransformCharactersForNumbers(left + focused + right); ok {
		left, focused, right = splitTransformedByRuneCount(transformed, len([]rune(left)), len([]rune(focused)))
	}
	return left, focused, right
}

// IsToggleable reports whether the chunk immediately left of character
// position pos (ASIS view) can still be cycled via {<} rewind, mirroring
// the pos-1 convention applyRewind uses to find the same chunk.
func (c *Composition) IsToggleable(pos int) bool {
	idx := c.chunkIndexContaining(pos - 1)
	if idx < 0 {
		return false
	}
	return c.chunks[idx].IsToggleable(c.table)
}

// ShouldCommit reports whether the chunk at pos is flagged DirectInput
// and should be pushed out of the composition immediately.
func (c *Composition) ShouldCommit(pos int) bool {
	acc := 0
	for _, ch := range c.chunks {
		n := ch.Length()
		if pos >= acc && pos < acc+n {
			return ch.ShouldCommit()
		}
		acc += n
	}
	return false
}

// TransliteratorAt returns the transliterator governing the chunk at
// character position pos under the ASIS view, or the composition's
// default input transliterator if pos is at or past the end.
func (c *Composition) TransliteratorAt(pos int) Transliterator {
	acc := 0
	for _, ch := range c.chunks {
		n := ch.Length()
		if pos < acc+n {
			return ch.transliterator
		}
		acc += n
	}
	return c.inputTranslit
}

// SetTransliteratorRange overrides the transliterator of every chunk
// whose characters fall within [from, to).
func (c *Composition) SetTransliteratorRange(from, to int, t Transliterator) {
	acc := 0
	for _, ch := range c.chunks {
		n := ch.Length()
		if acc+n > from && acc < to {
			ch.transliterator = t
		}
		acc += n
	}
}

// SeedRawOneCodepointPerChunk resets the composition and creates one
// sealed chunk per codepoint of s, each carrying that codepoint verbatim
// as both its raw and its conversion. Used by SetPreeditTextForTestOnly and
// SetCompositionsForHandwriting, which both need to present literal
// text as if it had been typed character-by-character without running
// it back through the rewrite table.
func (c *Composition) SeedRawOneCodepointPerChunk(s string, t Transliterator) {
	c.chunks = nil
	for _, r := range s {
		ch := NewChunk(t)
		ch.raw = string(r)
		ch.conversion = string(r)
		ch.attributes = table.NoTransliteration
		c.chunks = append(c.chunks, ch)
	}
}
