package engine

import "math/rand"

// Deck is a FIFO queue of cards, shuffled once at creation. A drawn card is
// recycled to the bottom, matching the physical game; the exception is the
// get-out-of-jail-free card, which the player keeps until spent and which is
// returned through ReturnJailCard.
type Deck struct {
	cards []Card
}

// NewDeck copies and shuffles the card list.
func NewDeck(cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	if rng != nil {
		rng.Shuffle(len(d.cards), func(i, j int) {
			d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
		})
	}
	return d
}

// restoreDeck rebuilds a deck in an exact order, for snapshot restore.
func restoreDeck(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes the top card. Non-jail cards go straight to the bottom.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	if c.Kind != CardGetOutOfJail {
		d.cards = append(d.cards, c)
	}
	return c, true
}

// ReturnJailCard puts a spent get-out-of-jail-free card under the deck.
func (d *Deck) ReturnJailCard() {
	d.cards = append(d.cards, Card{
		Kind:        CardGetOutOfJail,
		Description: "Get Out of Jail Free",
	})
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns the deck in order, top first. Used for snapshots.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
