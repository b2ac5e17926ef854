package blocklist

import (
	"slices"
	"testing"
)

func TestHostSetUnionIsIdempotent(t *testing.T) {
	a := NewHostSet("a.com", "b.com")
	b := NewHostSet("b.com", "c.com", "a.com")

	a.Merge(b)
	a.Merge(b)

	want := []string{"a.com", "b.com", "c.com"}
	if got := a.Sorted(); !slices.Equal(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestHostSetIgnoresEmpty(t *testing.T) {
	set := NewHostSet("", "x.com")
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}
	if set.Contains("") {
		t.Error("empty string must never be a member")
	}
}

func TestHostSetIsCaseSensitive(t *testing.T) {
	set := NewHostSet("Example.com", "example.com")
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestHostSetSubtract(t *testing.T) {
	set := NewHostSet("a.com", "localhost", "broadcasthost")
	removed := set.Subtract(NewExcludedSet())
	if removed != 2 {
		t.Errorf("Subtract removed %d, want 2", removed)
	}
	if got := set.Sorted(); !slices.Equal(got, []string{"a.com"}) {
		t.Errorf("Sorted() = %v, want [a.com]", got)
	}
}

func TestHostSetSortedIsStrictlyAscending(t *testing.T) {
	set := NewHostSet("z.com", "a.com", "m.com", "a.com", "B.com", "a.com.")
	sorted := set.Sorted()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] >= sorted[i] {
			t.Fatalf("not strictly ascending at %d: %v", i, sorted)
		}
	}
	if len(sorted) != 5 {
		t.Errorf("len = %d, want 5", len(sorted))
	}
}

func TestNilHostSet(t *testing.T) {
	var set *HostSet
	if set.Contains("a.com") || set.Len() != 0 || set.Sorted() != nil {
		t.Error("nil set should behave as empty")
	}
}
