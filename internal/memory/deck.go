package memory

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// BuildDeck returns a shuffled deck of boardSize/2 pairs drawn from pool.
// A pool smaller than the number of pairs is reused across pair slots.
func BuildDeck(boardSize int, pool []string, rng *rand.Rand) []Card {
	needed := boardSize / 2
	if needed <= 0 {
		return nil
	}

	chosen := pickUnique(pool, needed, rng)

	cards := make([]Card, 0, needed*2)
	for i := range needed {
		var icon string
		if len(chosen) > 0 {
			icon = chosen[i%len(chosen)]
		}
		key := fmt.Sprintf("pair-%d", i)
		cards = append(cards,
			Card{ID: uuid.NewString(), PairKey: key, Icon: icon, State: CardHidden},
			Card{ID: uuid.NewString(), PairKey: key, Icon: icon, State: CardHidden},
		)
	}

	shuffle(cards, rng)
	return cards
}

// pickUnique draws up to count elements of items without repetition.
func pickUnique(items []string, count int, rng *rand.Rand) []string {
	if count <= 0 || len(items) == 0 {
		return nil
	}

	remaining := make([]string, len(items))
	copy(remaining, items)

	if len(remaining) <= count {
		shuffle(remaining, rng)
		return remaining
	}

	picked := make([]string, 0, count)
	for len(picked) < count && len(remaining) > 0 {
		idx := rng.IntN(len(remaining))
		picked = append(picked, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return picked
}

// shuffle is an in-place Fisher-Yates permutation.
func shuffle[T any](s []T, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
