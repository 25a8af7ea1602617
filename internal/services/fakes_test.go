package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/pkg/oracle"
)

// In-memory store fakes backing the service tests.

type fakeShiftStore struct {
	mu     sync.Mutex
	shifts map[string]models.Shift
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{shifts: make(map[string]models.Shift)}
}

func (f *fakeShiftStore) GetByID(id string) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	shift, ok := f.shifts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &shift, nil
}

func (f *fakeShiftStore) Create(shift *models.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if shift.ID == "" {
		shift.ID = uuid.New().String()
	}
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = time.Now()
	}
	f.shifts[shift.ID] = *shift
	return nil
}

func (f *fakeShiftStore) Update(shift *models.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.shifts[shift.ID]; !ok {
		return models.ErrNotFound
	}
	f.shifts[shift.ID] = *shift
	return nil
}

func (f *fakeShiftStore) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.shifts[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.shifts, id)
	return nil
}

func (f *fakeShiftStore) ListByStaffBetween(staffID string, start, end time.Time) ([]models.Shift, error) {
	return f.list(func(s models.Shift) bool {
		return s.StaffID == staffID && !s.Date.Before(start) && !s.Date.After(end)
	}), nil
}

func (f *fakeShiftStore) ListByAreaAndDate(areaID string, date time.Time) ([]models.Shift, error) {
	return f.list(func(s models.Shift) bool {
		return s.AreaID == areaID && s.SameDate(date)
	}), nil
}

func (f *fakeShiftStore) ListBetween(start, end time.Time) ([]models.Shift, error) {
	return f.list(func(s models.Shift) bool {
		return !s.Date.Before(start) && !s.Date.After(end)
	}), nil
}

func (f *fakeShiftStore) DeleteBetween(start, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.shifts {
		if !s.Date.Before(start) && !s.Date.After(end) {
			delete(f.shifts, id)
		}
	}
	return nil
}

func (f *fakeShiftStore) ReplaceBetween(start, end time.Time, shifts []models.Shift) error {
	if err := f.DeleteBetween(start, end); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range shifts {
		f.shifts[s.ID] = s
	}
	return nil
}

func (f *fakeShiftStore) list(keep func(models.Shift) bool) []models.Shift {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Shift
	for _, s := range f.shifts {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeShiftStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shifts)
}

type fakeStaffStore struct {
	staff map[string]models.Staff
}

func newFakeStaffStore(staff ...models.Staff) *fakeStaffStore {
	store := &fakeStaffStore{staff: make(map[string]models.Staff)}
	for _, s := range staff {
		store.staff[s.ID] = s
	}
	return store
}

func (f *fakeStaffStore) GetByID(id string) (*models.Staff, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStaffStore) List() ([]models.Staff, error) {
	return f.listWhere(func(models.Staff) bool { return true }), nil
}

func (f *fakeStaffStore) ListActive() ([]models.Staff, error) {
	return f.listWhere(func(s models.Staff) bool { return s.IsActive }), nil
}

func (f *fakeStaffStore) listWhere(keep func(models.Staff) bool) []models.Staff {
	var out []models.Staff
	for _, s := range f.staff {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeStaffStore) Create(s *models.Staff) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	f.staff[s.ID] = *s
	return nil
}

func (f *fakeStaffStore) Update(s *models.Staff) error {
	if _, ok := f.staff[s.ID]; !ok {
		return models.ErrNotFound
	}
	f.staff[s.ID] = *s
	return nil
}

func (f *fakeStaffStore) Delete(id string) error {
	if _, ok := f.staff[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.staff, id)
	return nil
}

type fakeAreaStore struct {
	areas map[string]models.Area
}

func newFakeAreaStore(areas ...models.Area) *fakeAreaStore {
	store := &fakeAreaStore{areas: make(map[string]models.Area)}
	for _, a := range areas {
		store.areas[a.ID] = a
	}
	return store
}

func (f *fakeAreaStore) GetByID(id string) (*models.Area, error) {
	a, ok := f.areas[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAreaStore) List() ([]models.Area, error) {
	var out []models.Area
	for _, a := range f.areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeAreaStore) Create(a *models.Area) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	f.areas[a.ID] = *a
	return nil
}

func (f *fakeAreaStore) Update(a *models.Area) error {
	if _, ok := f.areas[a.ID]; !ok {
		return models.ErrNotFound
	}
	f.areas[a.ID] = *a
	return nil
}

func (f *fakeAreaStore) Delete(id string) error {
	if _, ok := f.areas[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.areas, id)
	return nil
}

type fakeTimeOffStore struct {
	requests map[string]models.TimeOffRequest
}

func newFakeTimeOffStore(requests ...models.TimeOffRequest) *fakeTimeOffStore {
	store := &fakeTimeOffStore{requests: make(map[string]models.TimeOffRequest)}
	for _, r := range requests {
		store.requests[r.ID] = r
	}
	return store
}

func (f *fakeTimeOffStore) GetByID(id string) (*models.TimeOffRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (f *fakeTimeOffStore) Create(req *models.TimeOffRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.Status = models.TimeOffPending
	req.CreatedAt = time.Now()
	f.requests[req.ID] = *req
	return nil
}

func (f *fakeTimeOffStore) UpdateStatus(id string, status models.TimeOffStatus) error {
	r, ok := f.requests[id]
	if !ok {
		return models.ErrNotFound
	}
	if r.Status != models.TimeOffPending {
		return models.ErrAlreadyDecided
	}
	r.Status = status
	f.requests[id] = r
	return nil
}

func (f *fakeTimeOffStore) List() ([]models.TimeOffRequest, error) {
	var out []models.TimeOffRequest
	for _, r := range f.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTimeOffStore) ListApprovedBetween(start, end time.Time) ([]models.TimeOffRequest, error) {
	var out []models.TimeOffRequest
	for _, r := range f.requests {
		if r.Status == models.TimeOffApproved && !r.StartDate.After(end) && !r.EndDate.Before(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTimeOffStore) ListApprovedForStaffDate(staffID string, date time.Time) ([]models.TimeOffRequest, error) {
	var out []models.TimeOffRequest
	for _, r := range f.requests {
		if r.StaffID == staffID && r.Status == models.TimeOffApproved && r.Covers(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeGateway returns canned candidates for draft tests
type fakeGateway struct {
	candidates []oracle.Candidate
	err        error
	delay      time.Duration
	calls      int
}

func (f *fakeGateway) GenerateCandidates(ctx context.Context, req oracle.Request) ([]oracle.Candidate, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func (f *fakeGateway) GetName() string {
	return "fake"
}

var _ oracle.Gateway = (*fakeGateway)(nil)
