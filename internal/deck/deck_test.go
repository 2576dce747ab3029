package deck

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := New()
	require.Equal(t, 52, d.Remaining())

	seen := make(map[string]bool)
	for {
		card, ok := d.Draw()
		if !ok {
			break
		}
		assert.False(t, seen[card.String()], "duplicate card %s", card)
		seen[card.String()] = true
	}
	assert.Len(t, seen, 52)
}

func TestDrawFromEmptyDeck(t *testing.T) {
	d := Stacked()
	_, ok := d.Draw()
	assert.False(t, ok)
}

func TestStackedDealsTailFirst(t *testing.T) {
	d := Stacked(MustParseCard("2S"), MustParseCard("KH"), MustParseCard("AC"))

	first, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, "AC", first.String())

	second, _ := d.Draw()
	assert.Equal(t, "KH", second.String())
	assert.Equal(t, 1, d.Remaining())
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	a := New()
	b := New()
	a.Shuffle(rand.New(rand.NewPCG(7, 7)))
	b.Shuffle(rand.New(rand.NewPCG(7, 7)))

	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		require.Equal(t, ca, cb)
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		label string
		rank  Rank
		suit  Suit
	}{
		{"AS", Ace, Spades},
		{"TH", Ten, Hearts},
		{"2C", Two, Clubs},
		{"9D", Nine, Diamonds},
	}
	for _, tc := range tests {
		card, err := ParseCard(tc.label)
		require.NoError(t, err, tc.label)
		assert.Equal(t, tc.rank, card.Rank)
		assert.Equal(t, tc.suit, card.Suit)
		assert.Equal(t, tc.label, card.String())
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, label := range []string{"", "A", "ASX", "1S", "AX", "XS"} {
		_, err := ParseCard(label)
		assert.Error(t, err, label)
	}
}

func TestLabels(t *testing.T) {
	cards := []Card{MustParseCard("QH"), MustParseCard("7S")}
	assert.Equal(t, []string{"QH", "7S"}, Labels(cards))
	assert.Empty(t, Labels(nil))
}
