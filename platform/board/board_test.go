package board

import (
	"testing"

	"github.com/DedS3t/monopoly-engine/pkg/engine"
)

func TestLoadBoardUS(t *testing.T) {
	b, err := LoadBoard(EditionUS)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if b.Len() != 40 {
		t.Fatalf("board has %d spaces, want 40", b.Len())
	}
	if b.JailPosition() != 10 {
		t.Fatalf("jail at %d, want 10", b.JailPosition())
	}
	if s := b.At(0); s.Kind != engine.SpaceGo {
		t.Fatalf("space 0 = %+v, want Go", s)
	}
	if s := b.At(30); s.Kind != engine.SpaceGoToJail {
		t.Fatalf("space 30 = %+v, want Go To Jail", s)
	}
	if s := b.At(20); s.Kind != engine.SpaceFreeParking {
		t.Fatalf("space 20 = %+v, want Free Parking", s)
	}
}

func TestLoadBoardUnknownEdition(t *testing.T) {
	if _, err := LoadBoard("mars"); err == nil {
		t.Fatal("unknown edition should fail")
	}
}

// Every ownable space needs the data the rules engine reads from it, and the
// declared group sizes have to match the actual board.
func TestBoardDataConsistency(t *testing.T) {
	b, err := LoadBoard(EditionUS)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	groups := make(map[string]int)
	for _, s := range b.Spaces() {
		if !s.Kind.Ownable() {
			continue
		}
		if s.Cost <= 0 || s.Mortgage <= 0 {
			t.Errorf("%s has no price data: %+v", s.Name, s)
		}
		if s.Group != "" {
			groups[s.Group]++
		}
		if s.Kind == engine.SpaceProperty {
			if len(s.MultipliedRent) != 5 {
				t.Errorf("%s has %d rent tiers, want 5", s.Name, len(s.MultipliedRent))
			}
			if s.HouseCost <= 0 {
				t.Errorf("%s has no house cost", s.Name)
			}
		}
	}
	for _, s := range b.Spaces() {
		if s.Group != "" && s.GroupSize != groups[s.Group] {
			t.Errorf("%s declares group size %d, board has %d", s.Name, s.GroupSize, groups[s.Group])
		}
	}
}

func TestLoadDecks(t *testing.T) {
	b, err := LoadBoard(EditionUS)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	known := map[engine.CardKind]bool{
		engine.CardAdvance:                true,
		engine.CardAdvanceNearestRailroad: true,
		engine.CardAdvanceNearestUtility:  true,
		engine.CardCollect:                true,
		engine.CardPay:                    true,
		engine.CardPayEachPlayer:          true,
		engine.CardCollectEachPlayer:      true,
		engine.CardGoToJail:               true,
		engine.CardGetOutOfJail:           true,
		engine.CardMoveBack:               true,
		engine.CardRepairs:                true,
	}

	for _, tt := range []struct {
		name string
		load func() ([]engine.Card, error)
	}{
		{"chance", LoadChanceCards},
		{"community", LoadCommunityCards},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := tt.load()
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(cards) == 0 {
				t.Fatal("empty deck")
			}
			jailCards := 0
			for _, c := range cards {
				if !known[c.Kind] {
					t.Errorf("unknown card kind %q in %q", c.Kind, c.Description)
				}
				if c.Kind == engine.CardGetOutOfJail {
					jailCards++
				}
				if c.Kind == engine.CardAdvance {
					if _, ok := b.ByName(c.Dest); !ok {
						t.Errorf("card %q advances to unknown space %q", c.Description, c.Dest)
					}
				}
			}
			if jailCards != 1 {
				t.Errorf("deck has %d get-out-of-jail cards, want 1", jailCards)
			}
		})
	}
}
