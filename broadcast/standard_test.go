package broadcast

import "testing"

func TestLookupKnownTags(t *testing.T) {
	for _, name := range []string{"m", "n", "b", "g", "h", "i", "d", "k", "l", "vhs525", "vhs625"} {
		s, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) = %v", name, err)
		}
		if s.MainBandwidth <= 0 {
			t.Fatalf("Lookup(%q) returned zero-value standard", name)
		}
	}
}

func TestLookupUnknownTag(t *testing.T) {
	if _, err := Lookup("nope"); err == nil {
		t.Fatal("expected error for unrecognised tag")
	}
}

func TestSystemMMatchesTable(t *testing.T) {
	s := Table[M]
	if s.Subcarrier != 3579545 {
		t.Errorf("System M subcarrier = %v, want 3579545", s.Subcarrier)
	}
	if s.Lines != 525 || s.VisibleLines != 480 {
		t.Errorf("System M geometry = %d/%d, want 525/480", s.Lines, s.VisibleLines)
	}
}

func TestSystemISECAMUnused(t *testing.T) {
	// System I is a PAL system; its SECAM-auxiliary fields still follow the
	// 625-line group values, since they are shared regardless of which
	// colour system ultimately uses the standard.
	s := Table[I]
	if s.Secam.DbCarrier != 4250000 {
		t.Errorf("System I Db carrier = %v, want 4250000", s.Secam.DbCarrier)
	}
}
