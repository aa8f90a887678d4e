package diag

import (
	"testing"

	"github.com/woupiestek/rlox/internal/source"
)

func mkDiag(code Code, sev Severity, start, end uint32) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  "m",
		Primary:  source.Span{File: 0, Start: start, End: end},
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(mkDiag(LexUnknownChar, SevError, 0, 1)) {
		t.Fatalf("first add should succeed")
	}
	if !b.Add(mkDiag(LexUnknownChar, SevError, 1, 2)) {
		t.Fatalf("second add should succeed")
	}
	if b.Add(mkDiag(LexUnknownChar, SevError, 2, 3)) {
		t.Fatalf("add past the limit should be dropped")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(mkDiag(LexInfo, SevInfo, 0, 1))
	if b.HasErrors() {
		t.Fatalf("info-only bag should not report errors")
	}
	b.Add(mkDiag(SynExpectExpression, SevError, 2, 3))
	if !b.HasErrors() {
		t.Fatalf("bag with an error should report errors")
	}
}

func TestSortOrdersBySpanThenSeverity(t *testing.T) {
	b := NewBag(8)
	b.Add(mkDiag(SynExpectSemicolon, SevError, 10, 12))
	b.Add(mkDiag(LexUnknownChar, SevError, 2, 3))
	b.Add(mkDiag(SynExpectExpression, SevWarning, 2, 3))
	b.Sort()

	items := b.Items()
	if items[0].Primary.Start != 2 || items[0].Code != LexUnknownChar {
		t.Fatalf("expected error at offset 2 first, got %v at %d", items[0].Code, items[0].Primary.Start)
	}
	if items[1].Severity != SevWarning {
		t.Fatalf("same-span warning should sort after the error")
	}
	if items[2].Primary.Start != 10 {
		t.Fatalf("later span should sort last")
	}
}

func TestDedup(t *testing.T) {
	b := NewBag(8)
	b.Add(mkDiag(SynExpectSemicolon, SevError, 4, 5))
	b.Add(mkDiag(SynExpectSemicolon, SevError, 4, 5))
	b.Add(mkDiag(SynExpectSemicolon, SevError, 6, 7))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Dedup left %d items, want 2", b.Len())
	}
}

func TestMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(mkDiag(LexUnknownChar, SevError, 0, 1))
	c := NewBag(2)
	c.Add(mkDiag(SynExpectExpression, SevError, 1, 2))
	c.Add(mkDiag(SynExpectSemicolon, SevError, 2, 3))
	a.Merge(c)
	if a.Len() != 3 {
		t.Fatalf("merged Len = %d, want 3", a.Len())
	}
}
