package composer

import (
	"github.com/username/gokana-ime/internal/table"
)

// Transliterator selects which view a chunk (or the whole composition) is
// currently displayed under.
type Transliterator int

const (
	// TransliteratorLocal is a pseudo-selector meaning "whatever this
	// chunk's own Transliterator field says"; it is never stored on a
	// Chunk, only passed to Composition methods that operate "per chunk".
	TransliteratorLocal Transliterator = iota
	TransliteratorHiragana
	TransliteratorFullKatakana
	TransliteratorHalfKatakana
	TransliteratorHalfASCII
	TransliteratorFullASCII
	TransliteratorRaw
	TransliteratorConversion
)

// AddStatus is the result of Chunk.AddInput.
type AddStatus int

const (
	// Absorbed means the chunk consumed the input and can still grow.
	Absorbed AddStatus = iota
	// Sealed means the chunk is finished; any unconsumed input must be
	// offered to a new chunk.
	Sealed
)

// Chunk is one atomic segment of a Composition: a raw-input slice, the
// already-committed converted text, and any pending rewrite-table state.
type Chunk struct {
	raw            string
	conversion     string
	pending        string
	ambiguous      string
	transliterator Transliterator
	attributes     table.Attribute

	// history retains the (raw, conversion, pending, ambiguous) quadruple
	// as it was before the most recent rune AddInput applied, so Rewind
	// can undo that rune.
	history *chunkSnapshot

	// toggleRule is a copy of the last rule addOneRune applied, kept so a
	// later Rewind can ask the table for its toggle-cycle successor
	// instead of only being able to undo back to empty. Cleared whenever
	// a rune fails to resolve against an exact rule.
	toggleRule *table.Rule
	// toggleStopped flushes the toggle chain: once set, Rewind can still
	// undo but will no longer advance the cycle, so the next identical
	// keystroke starts a fresh chunk instead of continuing it.
	toggleStopped bool
}

type chunkSnapshot struct {
	raw, conversion, pending, ambiguous string
	attributes                          table.Attribute
}

// NewChunk returns an empty chunk under the given default transliterator.
func NewChunk(t Transliterator) *Chunk {
	return &Chunk{transliterator: t}
}

func (c *Chunk) clone() *Chunk {
	cp := *c
	if c.history != nil {
		h := *c.history
		cp.history = &h
	}
	return &cp
}

func (c *Chunk) saveHistory() {
	c.history = &chunkSnapshot{
		raw:        c.raw,
		conversion: c.conversion,
		pending:    c.pending,
		ambiguous:  c.ambiguous,
		attributes: c.attributes,
	}
}

// Rewind undoes the effect of the most recent rune AddInput applied
// (AddInput saves history once per rune, so for a multi-rune call only
// the last rune is undone); if that rune started the chunk, the chunk is
// left empty. If the rule that rune applied participates in a toggle
// cycle, Rewind instead advances the
// chunk to that cycle's next rule without touching raw — this is the one
// mechanism behind both destructive {<} undo and mobile flick-style
// toggle cycling, since cycling a key is "rewind, but land on the next
// rule" rather than "go back to nothing". Returns true if the chunk
// changed.
func (c *Chunk) Rewind(t *table.Table) bool {
	if !c.toggleStopped && c.toggleRule != nil {
		if next, ok := t.NextRuleFor(c.toggleRule); ok {
			c.applyToggleRule(next)
			return true
		}
	}
	if c.history == nil {
		return false
	}
	c.raw = c.history.raw
	c.conversion = c.history.conversion
	c.pending = c.history.pending
	c.ambiguous = c.history.ambiguous
	c.attributes = c.history.attributes
	c.toggleRule = nil
	c.history = nil
	return true
}

// applyToggleRule replaces the chunk's conversion/pending state with
// rule's, leaving raw untouched since no new key was typed.
func (c *Chunk) applyToggleRule(rule table.Rule) {
	c.attributes = rule.Attributes
	if rule.Pending == "" || rule.Attributes&table.EndChunk != 0 {
		c.conversion = rule.Result
		c.pending = ""
		c.ambiguous = ""
	} else {
		c.ambiguous = rule.Result
		c.pending = rule.Pending
	}
	rc := rule
	c.toggleRule = &rc
}

// StopToggling flushes any in-flight toggle-cycle state without altering
// the chunk's visible text, so a later identical keystroke starts a
// fresh chunk rather than continuing the cycle.
func (c *Chunk) StopToggling() {
	c.toggleStopped = true
}

// Empty reports whether the chunk carries no raw input at all.
func (c *Chunk) Empty() bool {
	return c.raw == ""
}

// AddInput consumes the entirety of input against t, applying whichever
// rule matches the chunk's outstanding pending tail plus input. Because
// Mozc's rewrite rules are keyed on the whole typed string rather than a
// single character, input is consumed one rune at a time so that each
// intermediate state (important for toggle cycles and special keys) is
// observable.
func (c *Chunk) AddInput(t *table.Table, input string) (consumed int, status AddStatus) {
	runes := []rune(input)
	total := 0
	for _, r := range runes {
		n, st := c.addOneRune(t, string(r))
		total += n
		if st == Sealed {
			return total, Sealed
		}
	}
	return total, Absorbed
}

func (c *Chunk) addOneRune(t *table.Table, r string) (int, AddStatus) {
	c.saveHistory()
	if c.pending != "" && c.toggleRule != nil && c.toggleRule.Pending != c.toggleRule.Input {
		// The last rule consumed part of its input (e.g. "kk" -> っ with
		// "k" left pending): its result is final, so commit it before the
		// pending tail is resolved further.
		c.conversion += c.ambiguous
		c.ambiguous = ""
	}
	combined := c.pending + r
	lookup := t.Lookup(combined)

	switch {
	case lookup.Exact != nil:
		rule := lookup.Exact
		c.attributes = rule.Attributes
		if rule.Attributes&table.NewChunk != 0 && !c.Empty() {
			// NewChunk gets no special handling: neither this method nor
			// Composition.InsertInput seals the current chunk for it.
		}
		c.raw += r
		rc := *rule
		c.toggleRule = &rc
		c.toggleStopped = false
		if rule.Pending == "" || rule.Attributes&table.EndChunk != 0 {
			c.conversion += rule.Result
			c.pending = ""
			c.ambiguous = ""
			return len(r), Sealed
		}
		c.ambiguous = rule.Result
		c.pending = rule.Pending
		return len(r), Absorbed

	case lookup.HasLongerPrefix:
		c.raw += r
		c.pending = combined
		c.ambiguous = combined
		c.toggleRule = nil
		return len(r), Absorbed

	default:
		if c.pending != "" {
			// r doesn't extend the pending tail into any rule. The
			// pending tail seals on its own tentative resolution and r
			// is left completely unconsumed, so the caller must offer
			// it to a fresh chunk rather than have it swallowed into
			// this one's verbatim text.
			c.conversion += c.ambiguous
			c.pending = ""
			c.ambiguous = ""
			c.toggleRule = nil
			return 0, Sealed
		}
		// No rule can ever resolve this; commit the verbatim text and
		// seal, per the NO_TRANSLITERATION fallback.
		c.raw += r
		c.conversion += combined
		c.pending = ""
		c.ambiguous = ""
		c.attributes |= table.NoTransliteration
		c.toggleRule = nil
		return len(r), Sealed
	}
}

// Split divides the chunk at character position pos of its conversion
// text, returning the right-hand half as a new chunk; raw is cut at the
// same rune index. pos is local to this chunk. Splitting a chunk with outstanding pending text collapses the
// pending into verbatim conversion first, since pending state cannot be
// meaningfully divided.
func (c *Chunk) Split(pos int) *Chunk {
	c.flattenPending()
	convRunes := []rune(c.conversion)
	rawRunes := []rune(c.raw)
	if pos < 0 {
		pos = 0
	}
	if pos > len(convRunes) {
		pos = len(convRunes)
	}
	right := &Chunk{
		transliterator: c.transliterator,
		attributes:     c.attributes,
	}
	right.conversion = string(convRunes[pos:])
	c.conversion = string(convRunes[:pos])

	rawPos := pos
	if rawPos > len(rawRunes) {
		rawPos = len(rawRunes)
	}
	right.raw = string(rawRunes[rawPos:])
	c.raw = string(rawRunes[:rawPos])
	return right
}

// flattenPending commits any outstanding pending/ambiguous text into
// conversion verbatim, used before operations (split, merge) that cannot
// represent partial rewrite-table state across a boundary.
func (c *Chunk) flattenPending() {
	if c.pending == "" {
		return
	}
	c.conversion += c.ambiguous
	c.pending = ""
	c.ambiguous = ""
}

// Merge flattens both chunks' pending tails and appends other's raw and
// conversion onto c. Composition.DeleteAt does not call it: deleting a
// character removes a whole chunk and never merges neighbours.
func (c *Chunk) Merge(other *Chunk) {
	c.flattenPending()
	other.flattenPending()
	c.raw += other.raw
	c.conversion += other.conversion
}

// stringASIS returns the chunk's display string keeping any pending tail
// visible via its ambiguous resolution.
func (c *Chunk) stringASIS() string {
	return c.conversion + c.ambiguous
}

// stringTrim returns the chunk's display string with any pending tail
// dropped entirely.
func (c *Chunk) stringTrim() string {
	return c.conversion
}

// stringFix returns the chunk's display string with any pending tail
// committed as final.
func (c *Chunk) stringFix() string {
	return c.conversion + c.ambiguous
}

// Length returns the chunk's character length under its ASIS display.
func (c *Chunk) Length() int {
	return len([]rune(c.stringASIS()))
}

// RawLength returns the chunk's character length under the RAW view.
func (c *Chunk) RawLength() int {
	return len([]rune(c.raw))
}

// IsToggleable reports whether the chunk's most recently applied rule
// participates in a toggle cycle that Rewind could still advance into.
func (c *Chunk) IsToggleable(t *table.Table) bool {
	if c.toggleStopped || c.toggleRule == nil {
		return false
	}
	_, ok := t.NextRuleFor(c.toggleRule)
	return ok
}

// ShouldCommit reports whether the chunk is flagged DirectInput.
func (c *Chunk) ShouldCommit() bool {
	return c.attributes&table.DirectInput != 0
}
