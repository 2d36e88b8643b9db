package engine

import "fmt"

// SpaceKind tags what a board space is. Ownable kinds (property, railroad,
// utility) get a ledger entry; the rest are resolved directly by the game.
type SpaceKind string

const (
	SpaceProperty    SpaceKind = "property"
	SpaceRailroad    SpaceKind = "railroad"
	SpaceUtility     SpaceKind = "utility"
	SpaceTax         SpaceKind = "tax"
	SpaceChance      SpaceKind = "chance"
	SpaceCommunity   SpaceKind = "community-chest"
	SpaceJail        SpaceKind = "jail"
	SpaceGoToJail    SpaceKind = "go-to-jail"
	SpaceFreeParking SpaceKind = "free-parking"
	SpaceGo          SpaceKind = "go"
)

// Ownable reports whether the kind can be bought and held by a player.
func (k SpaceKind) Ownable() bool {
	return k == SpaceProperty || k == SpaceRailroad || k == SpaceUtility
}

// Space is one square of the board. Static data only; ownership and
// development live in the Ledger so the board can be shared between games.
type Space struct {
	Name           string    `json:"name"`
	Kind           SpaceKind `json:"type"`
	Position       int       `json:"position"`
	Cost           int       `json:"cost,omitempty"`
	Mortgage       int       `json:"mortgage,omitempty"`
	Rent           int       `json:"rent,omitempty"`
	MultipliedRent []int     `json:"multiplied_rent,omitempty"`
	Group          string    `json:"group,omitempty"`
	GroupSize      int       `json:"group_size,omitempty"`
	HouseCost      int       `json:"house_cost,omitempty"`
}

// Board is the immutable ordered sequence of spaces.
type Board struct {
	spaces  []Space
	byName  map[string]int
	jailPos int
}

// NewBoard validates the space list and builds the lookup indexes. Spaces
// must arrive sorted by position with no gaps and unique names, and the
// board must contain a jail square.
func NewBoard(spaces []Space) (*Board, error) {
	if len(spaces) == 0 {
		return nil, fmt.Errorf("board: no spaces")
	}
	b := &Board{}
	b.spaces = make([]Space, len(spaces))
	copy(b.spaces, spaces)
	b.byName = make(map[string]int, len(spaces))
	b.jailPos = -1
	for i, s := range b.spaces {
		if s.Position != i {
			return nil, fmt.Errorf("board: space %q at index %d has position %d", s.Name, i, s.Position)
		}
		if _, dup := b.byName[s.Name]; dup {
			return nil, fmt.Errorf("board: duplicate space name %q", s.Name)
		}
		b.byName[s.Name] = i
		if s.Kind == SpaceJail {
			b.jailPos = i
		}
	}
	if b.jailPos < 0 {
		return nil, fmt.Errorf("board: no jail space")
	}
	return b, nil
}

func (b *Board) Len() int {
	return len(b.spaces)
}

// At returns the space at a position index.
func (b *Board) At(pos int) Space {
	return b.spaces[pos]
}

// ByName looks a space up by its unique name.
func (b *Board) ByName(name string) (Space, bool) {
	i, ok := b.byName[name]
	if !ok {
		return Space{}, false
	}
	return b.spaces[i], true
}

// JailPosition is the index of the jail square.
func (b *Board) JailPosition() int {
	return b.jailPos
}

// NextOfKind finds the first space of the given kind strictly after from,
// wrapping past Go. Returns -1 if the board has none.
func (b *Board) NextOfKind(from int, kind SpaceKind) int {
	n := len(b.spaces)
	for step := 1; step <= n; step++ {
		pos := (from + step) % n
		if b.spaces[pos].Kind == kind {
			return pos
		}
	}
	return -1
}

// Spaces returns a copy of the full space list.
func (b *Board) Spaces() []Space {
	out := make([]Space, len(b.spaces))
	copy(out, b.spaces)
	return out
}
