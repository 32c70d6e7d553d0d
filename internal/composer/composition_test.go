package composer

import (
	"testing"

	"github.com/username/gokana-ime/internal/table"
)

func newTestComposition() *Composition {
	tbl := table.NewDefaultRomanToHiragana()
	return NewComposition(tbl, TransliteratorHiragana)
}

func TestCompositionInsertInputBasic(t *testing.T) {
	c := newTestComposition()
	n := c.InsertInput(0, "ka")
	if n != 1 {
		t.Fatalf("expected 1 character inserted (か), got %d", n)
	}
	if got := c.GetString(); got != "か" {
		t.Errorf("expected か, got %q", got)
	}
}

func TestCompositionInsertInputSpansMultipleChunks(t *testing.T) {
	c := newTestComposition()
	c.InsertInput(0, "kanji")
	// k,a -> か; n -> ん, tentatively pending for na/ni/nu/ne/no/nn; 'j'
	// doesn't extend that pending ('nj' matches no rule and no longer
	// prefix), so ん seals on its own and 'ji' resolves fresh as じ.
	if got := c.GetString(); got != "かんじ" {
		t.Fatalf("expected かんじ, got %q", got)
	}
}

func TestCompositionGetStringWithTrimMode(t *testing.T) {
	c := newTestComposition()
	c.InsertInput(0, "kan")
	if got := c.GetStringWithTrimMode(Trim); got != "か" {
		t.Errorf("TRIM: want か, got %q", got)
	}
	if got := c.GetStringWithTrimMode(Asis); got != "かん" {
		t.Errorf("ASIS: want かん, got %q", got)
	}
}

func TestCompositionDeleteAt(t *testing.T) {
	c := newTestComposition()
	c.InsertInput(0, "ka")
	c.DeleteAt(0)
	if got := c.GetString(); got != "" {
		t.Errorf("expected deleting the only chunk to leave composition empty, got %q", got)
	}
}

func TestCompositionExpandedStringsOnPendingN(t *testing.T) {
	c := newTestComposition()
	c.InsertInput(0, "kon")
	base, expanded := c.GetExpandedStrings()
	if base != "こ" {
		t.Fatalf("expected base こ (the sealed chunk), got %q", base)
	}
	if !expanded["ん"] {
		t.Errorf("expected ん to be among the expansions of a pending 'n', got %v", expanded)
	}
}
