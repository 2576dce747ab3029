package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	return Settings{TotalSeats: 6, AIPlayers: 5, StartingStack: 2000, SmallBlind: 10, BigBlind: 20}
}

func TestCreateRoomValidatesSeats(t *testing.T) {
	reg := testRegistry(t, 4, nil)

	s := validSettings()
	s.TotalSeats = 1
	_, _, err := reg.CreateRoom("Alice", s)
	assert.ErrorIs(t, err, ErrSeatsOutOfRange)

	s.TotalSeats = 10
	_, _, err = reg.CreateRoom("Alice", s)
	assert.ErrorIs(t, err, ErrSeatsOutOfRange)
}

func TestCreateRoomValidatesAISeats(t *testing.T) {
	reg := testRegistry(t, 4, nil)

	s := validSettings()
	s.AIPlayers = 6
	_, _, err := reg.CreateRoom("Alice", s)
	assert.ErrorIs(t, err, ErrTooManyAISeats)

	s.AIPlayers = -1
	_, _, err = reg.CreateRoom("Alice", s)
	assert.ErrorIs(t, err, ErrTooManyAISeats)
}

func TestCreateRoomAssignsCode(t *testing.T) {
	reg := testRegistry(t, 4, nil)
	r, host, err := reg.CreateRoom("Alice", validSettings())
	require.NoError(t, err)

	assert.Len(t, r.ID(), 6)
	assert.NotEmpty(t, host.Secret)

	got, err := reg.Get(r.ID())
	require.NoError(t, err)
	assert.Same(t, r, got)
}

func TestEachRoomGetsOwnRandomSource(t *testing.T) {
	reg := testRegistry(t, 4, nil)

	r1, _, err := reg.CreateRoom("Alice", validSettings())
	require.NoError(t, err)
	r2, _, err := reg.CreateRoom("Bob", validSettings())
	require.NoError(t, err)

	// Rooms shuffle and pick dealers under their own mutexes only, so
	// sharing a generator between rooms (or with the registry) would
	// race.
	assert.NotSame(t, r1.rng, r2.rng)
	assert.NotSame(t, reg.rng, r1.rng)
	assert.NotSame(t, reg.rng, r2.rng)
}

func TestRoomLimit(t *testing.T) {
	reg := testRegistry(t, 2, nil)

	_, _, err := reg.CreateRoom("Alice", validSettings())
	require.NoError(t, err)
	_, _, err = reg.CreateRoom("Bob", validSettings())
	require.NoError(t, err)

	_, _, err = reg.CreateRoom("Carol", validSettings())
	assert.ErrorIs(t, err, ErrRoomLimit)
}

func TestGetUnknownRoom(t *testing.T) {
	reg := testRegistry(t, 4, nil)
	_, err := reg.Get("NOPE42")
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestListIsSortedByCode(t *testing.T) {
	reg := testRegistry(t, 8, nil)
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, _, err := reg.CreateRoom(name, validSettings())
		require.NoError(t, err)
	}

	listed := reg.List()
	require.Len(t, listed, 3)
	for i := 1; i < len(listed); i++ {
		assert.Less(t, listed[i-1].RoomID, listed[i].RoomID)
	}
	for _, sum := range listed {
		assert.Equal(t, 6, sum.TotalSeats)
		assert.Equal(t, 1, sum.Humans)
	}
}
