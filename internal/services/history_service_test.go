package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

var (
	histStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	histEnd   = histStart.AddDate(0, 0, 6)
)

func histShift(id string) models.Shift {
	return models.Shift{
		ID: id, StaffID: "staff-1", AreaID: "area-1",
		Date: histStart, StartTime: "07:00", EndTime: "15:00",
		CreatedAt: time.Now(),
	}
}

// windowIDs reads the store's current window state as a set of shift IDs
func windowIDs(t *testing.T, store *fakeShiftStore) []string {
	t.Helper()
	shifts, err := store.ListBetween(histStart, histEnd)
	require.NoError(t, err)
	ids := make([]string, len(shifts))
	for i, s := range shifts {
		ids[i] = s.ID
	}
	return ids
}

func TestHistoryUndoRedo(t *testing.T) {
	store := newFakeShiftStore()
	history := NewHistoryService(store, 20)

	// state A: one shift
	require.NoError(t, store.Create(&models.Shift{ID: "a", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))
	stateA, err := store.ListBetween(histStart, histEnd)
	require.NoError(t, err)

	// mutate to state B, snapshotting A first
	history.Snapshot(histStart, histEnd, stateA)
	require.NoError(t, store.Create(&models.Shift{ID: "b", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))

	assert.Equal(t, 1, history.Depth())

	// undo brings back A
	restored, err := history.Undo()
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, []string{"a"}, windowIDs(t, store))
	assert.Equal(t, 0, history.Depth())

	// redo brings back B
	restored, err = history.Redo()
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, windowIDs(t, store))
	assert.Equal(t, 1, history.Depth())

	// undo again returns to A: redo state was preserved by swap
	_, err = history.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, windowIDs(t, store))
}

func TestHistoryBoundaryNoOps(t *testing.T) {
	store := newFakeShiftStore()
	history := NewHistoryService(store, 20)

	// nothing recorded yet
	restored, err := history.Undo()
	require.NoError(t, err)
	assert.Nil(t, restored)

	restored, err = history.Redo()
	require.NoError(t, err)
	assert.Nil(t, restored)

	history.Snapshot(histStart, histEnd, nil)
	require.NoError(t, store.Create(&models.Shift{ID: "a", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))

	// exhaust undo, then keep undoing
	_, err = history.Undo()
	require.NoError(t, err)
	restored, err = history.Undo()
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Empty(t, windowIDs(t, store))

	// exhaust redo, then keep redoing
	_, err = history.Redo()
	require.NoError(t, err)
	restored, err = history.Redo()
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Equal(t, []string{"a"}, windowIDs(t, store))
}

func TestHistoryNewSnapshotTruncatesRedo(t *testing.T) {
	store := newFakeShiftStore()
	history := NewHistoryService(store, 20)

	// empty -> {a} -> {a,b}
	history.Snapshot(histStart, histEnd, nil)
	require.NoError(t, store.Create(&models.Shift{ID: "a", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))

	stateA, err := store.ListBetween(histStart, histEnd)
	require.NoError(t, err)
	history.Snapshot(histStart, histEnd, stateA)
	require.NoError(t, store.Create(&models.Shift{ID: "b", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))

	// back to {a}, then take a different branch {a,c}
	_, err = history.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, windowIDs(t, store))

	stateA, err = store.ListBetween(histStart, histEnd)
	require.NoError(t, err)
	history.Snapshot(histStart, histEnd, stateA)
	require.NoError(t, store.Create(&models.Shift{ID: "c", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))

	// redo must land on the new branch, not resurrect {a,b}
	restored, err := history.Redo()
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.ElementsMatch(t, []string{"a", "c"}, windowIDs(t, store))

	// undo still walks back through the new branch
	_, err = history.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, windowIDs(t, store))
}

func TestHistoryEvictsOldestBeyondLimit(t *testing.T) {
	store := newFakeShiftStore()
	history := NewHistoryService(store, 3)

	// 5 mutations against a 3-entry budget
	for i := 0; i < 5; i++ {
		state, err := store.ListBetween(histStart, histEnd)
		require.NoError(t, err)
		history.Snapshot(histStart, histEnd, state)
		require.NoError(t, store.Create(&models.Shift{
			ID: fmt.Sprintf("shift-%d", i), StaffID: "s", AreaID: "ar",
			Date: histStart, StartTime: "07:00", EndTime: "15:00",
		}))
	}

	assert.Equal(t, 3, history.Depth())

	// only 3 undos are possible; the store ends at the oldest retained state
	for i := 0; i < 3; i++ {
		restored, err := history.Undo()
		require.NoError(t, err)
		assert.NotNil(t, restored)
	}
	restored, err := history.Undo()
	require.NoError(t, err)
	assert.Nil(t, restored)

	// 5 shifts existed, 3 undos walked back to the 2-shift state
	assert.Len(t, windowIDs(t, store), 2)
}

func TestHistoryRestoreLeavesOtherWeeksAlone(t *testing.T) {
	store := newFakeShiftStore()
	history := NewHistoryService(store, 20)

	otherWeek := histStart.AddDate(0, 0, 14)
	require.NoError(t, store.Create(&models.Shift{ID: "other", StaffID: "s", AreaID: "ar", Date: otherWeek, StartTime: "07:00", EndTime: "15:00"}))

	history.Snapshot(histStart, histEnd, nil)
	require.NoError(t, store.Create(&models.Shift{ID: "a", StaffID: "s", AreaID: "ar", Date: histStart, StartTime: "07:00", EndTime: "15:00"}))

	_, err := history.Undo()
	require.NoError(t, err)

	assert.Empty(t, windowIDs(t, store))
	other, err := store.GetByID("other")
	require.NoError(t, err)
	assert.Equal(t, "other", other.ID)
}
