package engine

// LedgerEntry is the dynamic state of one ownable space. Owner is a player
// id, "" while unowned.
type LedgerEntry struct {
	Space     string `json:"space"`
	Owner     string `json:"owner,omitempty"`
	Mortgaged bool   `json:"mortgaged,omitempty"`
	Houses    int    `json:"houses,omitempty"`
	Hotel     bool   `json:"hotel,omitempty"`
}

// Developed reports whether anything is built on the space.
func (e *LedgerEntry) Developed() bool {
	return e.Houses > 0 || e.Hotel
}

// Ledger tracks ownership, mortgage and development for every ownable space
// of one game. It enforces the color-group rules; money movement stays in
// the Game so each operation can validate funds before mutating.
type Ledger struct {
	board   *Board
	entries map[string]*LedgerEntry
}

// NewLedger creates an all-unowned ledger for the board.
func NewLedger(board *Board) *Ledger {
	l := &Ledger{board: board, entries: make(map[string]*LedgerEntry)}
	for _, s := range board.Spaces() {
		if s.Kind.Ownable() {
			l.entries[s.Name] = &LedgerEntry{Space: s.Name}
		}
	}
	return l
}

// Entry returns the ledger entry for an ownable space.
func (l *Ledger) Entry(name string) (*LedgerEntry, error) {
	e, ok := l.entries[name]
	if !ok {
		return nil, newError(ErrUnknownEntity, "%s is not an ownable space", name)
	}
	return e, nil
}

// Owner returns the owning player id, or "" for unowned or non-ownable.
func (l *Ledger) Owner(name string) string {
	if e, ok := l.entries[name]; ok {
		return e.Owner
	}
	return ""
}

// SetOwner assigns a space, clearing mortgage and development. Used for
// purchases and auction wins.
func (l *Ledger) SetOwner(name, playerID string) error {
	e, err := l.Entry(name)
	if err != nil {
		return err
	}
	e.Owner = playerID
	e.Mortgaged = false
	e.Houses = 0
	e.Hotel = false
	return nil
}

// Transfer moves a space between players keeping its mortgage flag, as in a
// bankruptcy settlement or a trade. Any houses or hotel on it are forfeited.
func (l *Ledger) Transfer(name, toPlayerID string) error {
	e, err := l.Entry(name)
	if err != nil {
		return err
	}
	e.Owner = toPlayerID
	e.Houses = 0
	e.Hotel = false
	return nil
}

// Release returns a space to the bank in its default state.
func (l *Ledger) Release(name string) error {
	e, err := l.Entry(name)
	if err != nil {
		return err
	}
	*e = LedgerEntry{Space: name}
	return nil
}

// OwnedBy lists the entries a player holds, in board order.
func (l *Ledger) OwnedBy(playerID string) []*LedgerEntry {
	var out []*LedgerEntry
	for _, s := range l.board.Spaces() {
		if e, ok := l.entries[s.Name]; ok && e.Owner == playerID {
			out = append(out, e)
		}
	}
	return out
}

// countOwnedOfKind counts railroads or utilities held by a player.
func (l *Ledger) countOwnedOfKind(playerID string, kind SpaceKind) int {
	n := 0
	for _, s := range l.board.Spaces() {
		if s.Kind == kind && l.Owner(s.Name) == playerID {
			n++
		}
	}
	return n
}

// OwnsGroup reports whether the player holds every space in the color group.
func (l *Ledger) OwnsGroup(playerID, group string) bool {
	if group == "" {
		return false
	}
	total, owned := 0, 0
	for _, s := range l.board.Spaces() {
		if s.Group != group {
			continue
		}
		total++
		if l.Owner(s.Name) == playerID {
			owned++
		}
	}
	return total > 0 && owned == total
}

// groupHasMortgage reports whether any space of the group is mortgaged.
func (l *Ledger) groupHasMortgage(group string) bool {
	for _, s := range l.board.Spaces() {
		if s.Group == group {
			if e, ok := l.entries[s.Name]; ok && e.Mortgaged {
				return true
			}
		}
	}
	return false
}

// Rent computes what landing on the space costs, given the dice sum of the
// landing roll. The caller has already established the space is owned by
// someone else and not mortgaged.
func (l *Ledger) Rent(space Space, diceSum int) int {
	e, ok := l.entries[space.Name]
	if !ok || e.Owner == "" {
		return 0
	}
	switch space.Kind {
	case SpaceRailroad:
		// 25 doubling per railroad owned: 25, 50, 100, 200.
		rent := space.Rent
		if rent == 0 {
			rent = 25
		}
		for i := 1; i < l.countOwnedOfKind(e.Owner, SpaceRailroad); i++ {
			rent *= 2
		}
		return rent
	case SpaceUtility:
		if l.countOwnedOfKind(e.Owner, SpaceUtility) >= 2 {
			return 10 * diceSum
		}
		return 4 * diceSum
	default:
		if e.Hotel {
			return space.MultipliedRent[len(space.MultipliedRent)-1]
		}
		if e.Houses > 0 {
			return space.MultipliedRent[e.Houses-1]
		}
		if l.OwnsGroup(e.Owner, space.Group) {
			return space.Rent * 2
		}
		return space.Rent
	}
}

// CanMortgage validates the mortgage preconditions without mutating.
func (l *Ledger) CanMortgage(playerID, name string) error {
	e, err := l.Entry(name)
	if err != nil {
		return err
	}
	if e.Owner != playerID {
		return newError(ErrInvalidState, "you do not own %s", name)
	}
	if e.Mortgaged {
		return newError(ErrInvalidState, "%s is already mortgaged", name)
	}
	if e.Developed() {
		return newError(ErrInvalidState, "%s is developed, sell the buildings first", name)
	}
	return nil
}

// CanBuildHouse validates group ownership, mortgage-free group, and the
// house cap.
func (l *Ledger) CanBuildHouse(playerID string, space Space) error {
	e, err := l.Entry(space.Name)
	if err != nil {
		return err
	}
	if space.Kind != SpaceProperty {
		return newError(ErrInvalidState, "%s cannot be developed", space.Name)
	}
	if e.Owner != playerID {
		return newError(ErrInvalidState, "you do not own %s", space.Name)
	}
	if !l.OwnsGroup(playerID, space.Group) {
		return newError(ErrInvalidState, "you must own the whole %s group to build on %s", space.Group, space.Name)
	}
	if l.groupHasMortgage(space.Group) {
		return newError(ErrInvalidState, "the %s group has a mortgaged property", space.Group)
	}
	if e.Hotel {
		return newError(ErrInvalidState, "%s already has a hotel", space.Name)
	}
	if e.Houses >= 4 {
		return newError(ErrInvalidState, "%s already has 4 houses, build a hotel", space.Name)
	}
	return nil
}

// CanBuildHotel requires exactly four houses on the space.
func (l *Ledger) CanBuildHotel(playerID string, space Space) error {
	e, err := l.Entry(space.Name)
	if err != nil {
		return err
	}
	if space.Kind != SpaceProperty {
		return newError(ErrInvalidState, "%s cannot be developed", space.Name)
	}
	if e.Owner != playerID {
		return newError(ErrInvalidState, "you do not own %s", space.Name)
	}
	if !l.OwnsGroup(playerID, space.Group) {
		return newError(ErrInvalidState, "you must own the whole %s group to build on %s", space.Group, space.Name)
	}
	if l.groupHasMortgage(space.Group) {
		return newError(ErrInvalidState, "the %s group has a mortgaged property", space.Group)
	}
	if e.Hotel {
		return newError(ErrInvalidState, "%s already has a hotel", space.Name)
	}
	if e.Houses != 4 {
		return newError(ErrInvalidState, "%s needs 4 houses before a hotel", space.Name)
	}
	return nil
}

// Entries returns every ledger entry in board order. Used for snapshots.
func (l *Ledger) Entries() []LedgerEntry {
	var out []LedgerEntry
	for _, s := range l.board.Spaces() {
		if e, ok := l.entries[s.Name]; ok {
			out = append(out, *e)
		}
	}
	return out
}
