package eventlog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreInsertAndRecent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(Entry{
		ID: "a", CreatedAt: 100, TimeMS: 1000, Kind: KindGesture,
		Gesture: "right", DurationMS: 420, Samples: 21, MaxSwingMM: 34, PeakVelocityMMPS: 800,
	}))
	require.NoError(t, s.Insert(Entry{
		ID: "b", CreatedAt: 200, TimeMS: 2000, Kind: KindRejected, Reason: "episode too short",
	}))

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b", got[0].ID, "newest first")
	assert.Equal(t, KindRejected, got[0].Kind)
	assert.Equal(t, "episode too short", got[0].Reason)

	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "right", got[1].Gesture)
	assert.Equal(t, int64(420), got[1].DurationMS)
	assert.Equal(t, 800, got[1].PeakVelocityMMPS)
}

func TestStoreRecentLimit(t *testing.T) {
	s := openTestStore(t)
	// CreatedAt starts at 1: a zero value would be auto-stamped with the
	// wall clock and ruin the ordering under test.
	for i := 1; i <= 20; i++ {
		require.NoError(t, s.Insert(Entry{
			ID: fmt.Sprintf("id-%02d", i), CreatedAt: int64(i), TimeMS: int64(i), Kind: KindGesture, Gesture: "tap",
		}))
	}

	got, err := s.Recent(5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "id-20", got[0].ID)
	assert.Equal(t, "id-16", got[4].ID)
}

func TestStoreRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriterPersists(t *testing.T) {
	s := openTestStore(t)
	w := NewWriter(s)

	w.Record(Entry{TimeMS: 1000, Kind: KindGesture, Gesture: "up"})
	w.Record(Entry{TimeMS: 2000, Kind: KindRejected, Reason: "weak swing and weak velocity"})
	w.Close()

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.NotEmpty(t, e.ID)
		assert.NotZero(t, e.CreatedAt)
	}
}

func TestWriterWithoutStore(t *testing.T) {
	w := NewWriter(nil)
	w.Record(Entry{Kind: KindGesture})
	w.Close()
}
