package token

import "testing"

func TestMergeSpansBothLocations(t *testing.T) {
	a := Loc{File: "m.fc", Start: Position{Line: 1, Column: 0}, End: Position{Line: 1, Column: 5}}
	b := Loc{File: "m.fc", Start: Position{Line: 3, Column: 2}, End: Position{Line: 3, Column: 9}}
	m := Merge(a, b)
	if m.Start != a.Start {
		t.Fatalf("expected merged start to be the earlier position, got %#v", m.Start)
	}
	if m.End != b.End {
		t.Fatalf("expected merged end to be the later position, got %#v", m.End)
	}
}

func TestMergeTreatsNoneAsAbsent(t *testing.T) {
	real := Loc{File: "m.fc", Start: Position{Line: 0, Column: 0}, End: Position{Line: 0, Column: 1}}
	if Merge(None, real) != real {
		t.Fatalf("expected Merge(None, real) to return real unchanged")
	}
	if Merge(real, None) != real {
		t.Fatalf("expected Merge(real, None) to return real unchanged")
	}
}

func TestLocStringFormatsSingleAndRangePositions(t *testing.T) {
	single := Loc{File: "m.fc", Start: Position{Line: 0, Column: 0}, End: Position{Line: 0, Column: 0}}
	if got, want := single.String(), "m.fc:1:1"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	rng := Loc{File: "m.fc", Start: Position{Line: 0, Column: 0}, End: Position{Line: 1, Column: 2}}
	if got, want := rng.String(), "m.fc:1:1-2:3"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := None.String(), "<none>"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
