package services

import (
	"sync"
	"time"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// HistoryEntry is an immutable snapshot of the committed shifts inside one
// date window, taken immediately before a mutation committed.
type HistoryEntry struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Shifts      []models.Shift
	TakenAt     time.Time
}

// HistoryService maintains a bounded, replayable undo/redo log of
// committed-schedule snapshots. Restoring an entry replaces only the shifts
// inside that entry's window; other weeks are left untouched.
//
// The sequence holds at most maxEntries snapshots. A new snapshot truncates
// everything past the cursor, so mutating after an undo discards the
// redoable future. On overflow the oldest entry is evicted and the cursor
// shifts down with it, preserving relative undo depth.
type HistoryService struct {
	mu         sync.Mutex
	store      ShiftStore
	entries    []HistoryEntry
	cursor     int // index of the entry undo would restore; -1 when none
	maxEntries int
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(store ShiftStore, maxEntries int) *HistoryService {
	return &HistoryService{
		store:      store,
		cursor:     -1,
		maxEntries: maxEntries,
	}
}

// Snapshot records the pre-mutation state of a window. Call it immediately
// before committing any mutation of that window.
func (s *HistoryService) Snapshot(windowStart, windowEnd time.Time, shifts []models.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := HistoryEntry{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Shifts:      cloneShifts(shifts),
		TakenAt:     time.Now(),
	}

	s.entries = append(s.entries[:s.cursor+1], entry)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[1:]
	}
	s.cursor = len(s.entries) - 1
}

// Undo restores the snapshot at the cursor and returns the restored window
// shifts. When the cursor is at the earliest position it is a no-op
// returning nil; repeated calls at the boundary stay no-ops.
func (s *HistoryService) Undo() ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < 0 {
		return nil, nil
	}

	entry := s.entries[s.cursor]
	current, err := s.store.ListBetween(entry.WindowStart, entry.WindowEnd)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceBetween(entry.WindowStart, entry.WindowEnd, entry.Shifts); err != nil {
		return nil, err
	}

	// Swap the restored entry for the displaced state so redo can bring
	// it back.
	s.entries[s.cursor] = HistoryEntry{
		WindowStart: entry.WindowStart,
		WindowEnd:   entry.WindowEnd,
		Shifts:      cloneShifts(current),
		TakenAt:     time.Now(),
	}
	s.cursor--

	return cloneShifts(entry.Shifts), nil
}

// Redo re-applies the state displaced by the previous undo. At the latest
// position it is a no-op returning nil.
func (s *HistoryService) Redo() ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.entries)-1 {
		return nil, nil
	}

	entry := s.entries[s.cursor+1]
	current, err := s.store.ListBetween(entry.WindowStart, entry.WindowEnd)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceBetween(entry.WindowStart, entry.WindowEnd, entry.Shifts); err != nil {
		return nil, err
	}

	s.cursor++
	s.entries[s.cursor] = HistoryEntry{
		WindowStart: entry.WindowStart,
		WindowEnd:   entry.WindowEnd,
		Shifts:      cloneShifts(current),
		TakenAt:     time.Now(),
	}

	return cloneShifts(entry.Shifts), nil
}

// Depth returns the number of undoable entries behind the cursor
func (s *HistoryService) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor + 1
}

func cloneShifts(shifts []models.Shift) []models.Shift {
	cloned := make([]models.Shift, len(shifts))
	copy(cloned, shifts)
	return cloned
}
