package composer

import (
	"testing"

	"github.com/username/gokana-ime/internal/table"
)

func TestChunkAddInputSimpleMora(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	n, status := c.AddInput(tbl, "k")
	if n != 1 {
		t.Fatalf("expected to consume 1 byte, got %d", n)
	}
	if status != Absorbed {
		t.Fatalf("bare 'k' should stay open (Absorbed), got %v", status)
	}
	if c.conversion != "" {
		t.Errorf("bare 'k' should not have committed anything yet, got conversion=%q", c.conversion)
	}
	if c.pending != "k" {
		t.Errorf("bare 'k' should be held as pending, got %q", c.pending)
	}

	n, status = c.AddInput(tbl, "a")
	if status != Sealed {
		t.Fatalf("'ka' should seal the chunk, got %v", status)
	}
	if c.conversion != "か" {
		t.Errorf("expected conversion か, got %q", c.conversion)
	}
	if n != 1 {
		t.Errorf("expected 1 byte consumed for 'a', got %d", n)
	}
}

func TestChunkAddInputNMoraResolution(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)

	if _, status := c.AddInput(tbl, "n"); status != Absorbed {
		t.Fatalf("'n' alone should stay open")
	}
	if c.ambiguous != "ん" {
		t.Errorf("expected tentative ambiguous ん, got %q", c.ambiguous)
	}

	if _, status := c.AddInput(tbl, "a"); status != Sealed {
		t.Fatalf("'na' should seal")
	}
	if c.conversion != "な" {
		t.Errorf("expected 'n'+'a' to resolve to な, not bare ん+あ; got %q", c.conversion)
	}
}

func TestChunkAddInputDoubleNSealsAsN(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	c.AddInput(tbl, "n")
	_, status := c.AddInput(tbl, "n")
	if status != Sealed {
		t.Fatalf("'nn' should seal to ん")
	}
	if c.conversion != "ん" {
		t.Errorf("expected 'nn' to resolve to ん, got %q", c.conversion)
	}
}

func TestChunkAddInputGeminationKeepsConsonantPending(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	c.AddInput(tbl, "k")
	_, status := c.AddInput(tbl, "k")
	if status != Absorbed {
		t.Fatalf("'kk' should stay open pending the vowel, got %v", status)
	}
	if c.ambiguous != "っ" {
		t.Errorf("expected tentative ambiguous っ after 'kk', got %q", c.ambiguous)
	}
	if c.pending != "k" {
		t.Errorf("expected pending consonant 'k' to carry forward, got %q", c.pending)
	}
	_, status = c.AddInput(tbl, "a")
	if status != Sealed || c.conversion != "っか" {
		t.Fatalf("expected 'kka' to seal as っか, got conversion=%q status=%v", c.conversion, status)
	}
}

func TestChunkAddInputUnmatchedFallsBackVerbatim(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	_, status := c.AddInput(tbl, "q")
	if status != Sealed {
		t.Fatalf("a character with no rule and no longer prefix should seal immediately")
	}
	if c.conversion != "q" {
		t.Errorf("expected verbatim fallback 'q', got %q", c.conversion)
	}
}

func TestChunkAddInputPendingSealsWithoutSwallowingNextRune(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	c.AddInput(tbl, "n")
	if c.ambiguous != "ん" {
		t.Fatalf("expected pending ん, got %q", c.ambiguous)
	}
	consumed, status := c.AddInput(tbl, "j")
	if status != Sealed {
		t.Fatalf("'nj' matches no rule, so the pending ん should seal, got %v", status)
	}
	if consumed != 0 {
		t.Errorf("expected the unmatched 'j' to be left unconsumed, got consumed=%d", consumed)
	}
	if c.conversion != "ん" || c.pending != "" {
		t.Errorf("expected the chunk to seal as ん, got conversion=%q pending=%q", c.conversion, c.pending)
	}
}

func TestChunkRewindUndoesLastAddInput(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	c.AddInput(tbl, "k")
	before := c.pending
	c.AddInput(tbl, "a")
	if !c.Rewind(tbl) {
		t.Fatalf("expected Rewind to succeed")
	}
	if c.pending != before {
		t.Errorf("expected Rewind to restore pending to %q, got %q", before, c.pending)
	}
	if c.conversion != "" {
		t.Errorf("expected Rewind to undo the committed か, got conversion=%q", c.conversion)
	}
}

func TestChunkStringViews(t *testing.T) {
	tbl := table.NewDefaultRomanToHiragana()
	c := NewChunk(TransliteratorHiragana)
	c.AddInput(tbl, "k")
	c.AddInput(tbl, "a")
	c.AddInput(tbl, "n")
	if got := c.stringTrim(); got != "か" {
		t.Errorf("TRIM view: want か, got %q", got)
	}
	if got := c.stringASIS(); got != "かん" {
		t.Errorf("ASIS view: want かん, got %q", got)
	}
	if got := c.stringFix(); got != "かん" {
		t.Errorf("FIX view: want かん, got %q", got)
	}
}
