package game

import (
	"sort"

	"github.com/a1henu/deepseek-poker/internal/deck"
)

// Category is the class of a five-card poker hand
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Strength is a comparable score for a five-card hand: the category,
// then ordered kickers for within-category tie-breaks, plus the five
// cards that produced it for showdown reveal.
type Strength struct {
	Category Category
	Kickers  []int
	Cards    []deck.Card
}

// EvaluateBest picks the strongest five-card hand from hole∪board by
// enumerating every 5-card subset (at most 21 for 7 cards).
func EvaluateBest(hole, board []deck.Card) Strength {
	cards := make([]deck.Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)

	var best Strength
	first := true
	combo := make([]deck.Card, 5)
	forEachFive(cards, combo, func(five []deck.Card) {
		s := evaluateFive(five)
		if first || CompareStrength(s, best) > 0 {
			best = s
			first = false
		}
	})
	return best
}

// forEachFive visits every 5-card subset of cards in index order
func forEachFive(cards, combo []deck.Card, visit func([]deck.Card)) {
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo[0], combo[1], combo[2], combo[3], combo[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						visit(combo)
					}
				}
			}
		}
	}
}

func evaluateFive(cards []deck.Card) Strength {
	values := make([]int, 5)
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	isFlush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			isFlush = false
			break
		}
	}

	straightHigh := detectStraight(values)

	held := func(k []int) Strength {
		five := make([]deck.Card, 5)
		copy(five, cards)
		return Strength{Kickers: k, Cards: five}
	}

	if isFlush && straightHigh > 0 {
		s := held([]int{straightHigh})
		s.Category = StraightFlush
		return s
	}

	// Rank multiplicities, ordered by count then rank descending.
	counts := make(map[int]int, 5)
	for _, v := range values {
		counts[v]++
	}
	type group struct{ value, count int }
	groups := make([]group, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, group{v, n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	rest := func(exclude ...int) []int {
		out := make([]int, 0, 5)
		for _, v := range values {
			skip := false
			for _, ex := range exclude {
				if v == ex {
					skip = true
					break
				}
			}
			if !skip {
				out = append(out, v)
			}
		}
		return out
	}

	switch {
	case groups[0].count == 4:
		quad := groups[0].value
		s := held(append([]int{quad}, rest(quad)[0]))
		s.Category = FourOfAKind
		return s
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		s := held([]int{groups[0].value, groups[1].value})
		s.Category = FullHouse
		return s
	case isFlush:
		s := held(values)
		s.Category = Flush
		return s
	case straightHigh > 0:
		s := held([]int{straightHigh})
		s.Category = Straight
		return s
	case groups[0].count == 3:
		trips := groups[0].value
		s := held(append([]int{trips}, rest(trips)[:2]...))
		s.Category = ThreeOfAKind
		return s
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		high, low := groups[0].value, groups[1].value
		s := held([]int{high, low, rest(high, low)[0]})
		s.Category = TwoPair
		return s
	case groups[0].count == 2:
		pair := groups[0].value
		s := held(append([]int{pair}, rest(pair)[:3]...))
		s.Category = Pair
		return s
	default:
		s := held(values)
		s.Category = HighCard
		return s
	}
}

// detectStraight returns the straight's high rank, or 0. The wheel
// A-2-3-4-5 counts as a 5-high straight.
func detectStraight(values []int) int {
	unique := make([]int, 0, 5)
	seen := make(map[int]bool, 5)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	sort.Ints(unique)

	if seen[14] && seen[5] && seen[4] && seen[3] && seen[2] {
		return 5
	}
	for i := 0; i+4 < len(unique); i++ {
		if unique[i+4]-unique[i] == 4 {
			return unique[i+4]
		}
	}
	return 0
}

// CompareStrength orders two strengths: category first, then kickers
// lexicographically with missing positions treated as 0. Returns
// positive, zero, or negative.
func CompareStrength(a, b Strength) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Kickers)
	if len(b.Kickers) > n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a.Kickers) {
			av = a.Kickers[i]
		}
		if i < len(b.Kickers) {
			bv = b.Kickers[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}
