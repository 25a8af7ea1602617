package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
	"github.com/medoffice/shift-scheduler-backend/pkg/oracle"
)

type draftFixture struct {
	*scheduleFixture
	gateway *fakeGateway
	drafts  *DraftService
}

func newDraftFixture(gateway *fakeGateway) *draftFixture {
	f := newScheduleFixture()
	drafts := NewDraftService(
		f.shifts, f.staff, f.areas, f.timeOff,
		NewValidatorService(), f.schedule, gateway, quietLogger(),
	)
	return &draftFixture{scheduleFixture: f, gateway: gateway, drafts: drafts}
}

func draftCandidates() []oracle.Candidate {
	return []oracle.Candidate{
		{StaffID: "rn-1", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
		{StaffID: "tech-1", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
		{StaffID: "rn-2", AreaID: "area-2", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
	}
}

func TestGenerateDraft(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

		draft, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		require.NoError(t, err)
		assert.Equal(t, schedMonday, draft.WeekStart)
		assert.Equal(t, "fake", draft.GeneratedBy)
		require.Len(t, draft.Shifts, 3)
		assert.Empty(t, draft.Shifts[0].Warnings)
		assert.Equal(t, "Alice", draft.Shifts[0].Shift.StaffName)

		// drafts never touch the committed schedule
		assert.Equal(t, 0, f.shifts.count())
	})

	t.Run("Second Draft Rejected", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		require.NoError(t, err)

		_, err = f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		assert.ErrorIs(t, err, models.ErrDraftActive)
	})

	t.Run("Generator Failure Leaves No Draft", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{err: errors.New("model unavailable")})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		var oerr *models.OracleError
		require.ErrorAs(t, err, &oerr)

		_, err = f.drafts.GetDraft()
		assert.ErrorIs(t, err, models.ErrNoDraft)

		// a retry is allowed after the failure
		f.gateway.err = nil
		f.gateway.candidates = draftCandidates()
		_, err = f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		assert.NoError(t, err)
	})

	t.Run("Cancellation Leaves No Draft", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates(), delay: time.Second})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.drafts.GenerateDraft(ctx, schedMonday, oracle.ModeFull)
		require.Error(t, err)

		_, err = f.drafts.GetDraft()
		assert.ErrorIs(t, err, models.ErrNoDraft)
	})

	t.Run("Malformed Candidate Rejects Whole Draft", func(t *testing.T) {
		bad := draftCandidates()
		bad[1].StartTime = "7am"
		f := newDraftFixture(&fakeGateway{candidates: bad})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		var oerr *models.OracleError
		require.ErrorAs(t, err, &oerr)

		_, err = f.drafts.GetDraft()
		assert.ErrorIs(t, err, models.ErrNoDraft)
	})

	t.Run("Unknown Staff Rejects Whole Draft", func(t *testing.T) {
		bad := draftCandidates()
		bad[0].StaffID = "ghost"
		f := newDraftFixture(&fakeGateway{candidates: bad})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		var oerr *models.OracleError
		require.ErrorAs(t, err, &oerr)
	})

	t.Run("Date Outside Week Rejects Whole Draft", func(t *testing.T) {
		bad := draftCandidates()
		bad[0].Date = "2026-01-13"
		f := newDraftFixture(&fakeGateway{candidates: bad})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		var oerr *models.OracleError
		require.ErrorAs(t, err, &oerr)
	})

	t.Run("Soft Violations Become Warnings", func(t *testing.T) {
		double := []oracle.Candidate{
			{StaffID: "rn-1", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
			{StaffID: "rn-1", AreaID: "area-2", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
		}
		f := newDraftFixture(&fakeGateway{candidates: double})

		draft, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		require.NoError(t, err)
		require.Len(t, draft.Shifts, 2)
		assert.Empty(t, draft.Shifts[0].Warnings)
		assert.NotEmpty(t, draft.Shifts[1].Warnings)
	})

	t.Run("Unknown Mode", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.Mode("bogus"))
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestApplyDraft(t *testing.T) {
	t.Run("Commits And Consumes Draft", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		require.NoError(t, err)

		applied, rejected, err := f.drafts.Apply(false)
		require.NoError(t, err)
		assert.Len(t, applied, 3)
		assert.Empty(t, rejected)
		assert.Equal(t, 3, f.shifts.count())

		_, err = f.drafts.GetDraft()
		assert.ErrorIs(t, err, models.ErrNoDraft)

		// a fresh draft is allowed after the apply
		_, err = f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFillEmpty)
		assert.NoError(t, err)
	})

	t.Run("Conflicting Item Reported Rest Commit", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		require.NoError(t, err)

		// the world moved between generation and apply: rn-2's Monday
		// time-off was approved after the draft was generated
		require.NoError(t, f.timeOff.Create(&models.TimeOffRequest{
			ID: "req-1", StaffID: "rn-2",
			StartDate: schedMonday, EndDate: schedMonday,
		}))
		require.NoError(t, f.timeOff.UpdateStatus("req-1", models.TimeOffApproved))

		applied, rejected, err := f.drafts.Apply(false)
		require.NoError(t, err)
		assert.Len(t, applied, 2)
		require.Len(t, rejected, 1)
		assert.Equal(t, "rn-2", rejected[0].Shift.StaffID)
		assert.Contains(t, rejected[0].Reason, "approved time-off")
	})

	t.Run("No Draft", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{})

		_, _, err := f.drafts.Apply(false)
		assert.ErrorIs(t, err, models.ErrNoDraft)
	})

	t.Run("Undo Reverts Applied Draft", func(t *testing.T) {
		f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

		_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
		require.NoError(t, err)
		_, _, err = f.drafts.Apply(false)
		require.NoError(t, err)
		assert.Equal(t, 3, f.shifts.count())

		restored, err := f.schedule.Undo()
		require.NoError(t, err)
		assert.Empty(t, restored)
		assert.Equal(t, 0, f.shifts.count())
	})
}

func TestDiscardDraft(t *testing.T) {
	f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

	_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
	require.NoError(t, err)

	require.NoError(t, f.drafts.Discard())
	assert.Equal(t, 0, f.shifts.count())

	assert.ErrorIs(t, f.drafts.Discard(), models.ErrNoDraft)

	// discarding frees the slot for a new draft
	_, err = f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
	assert.NoError(t, err)
}

func TestDraftPreviewCoverage(t *testing.T) {
	f := newDraftFixture(&fakeGateway{candidates: draftCandidates()})

	_, err := f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
	require.NoError(t, err)

	cells, err := f.drafts.PreviewCoverage(true)
	require.NoError(t, err)
	// 2 areas x 7 days
	require.Len(t, cells, 14)

	byCell := make(map[string]models.CoverageVerdict)
	for _, c := range cells {
		byCell[c.AreaID+"|"+c.Date.Format(models.DateLayout)] = c.Verdict
	}

	// Monday covered by the draft, Tuesday untouched
	assert.True(t, byCell["area-1|2026-01-05"].Covered)
	assert.True(t, byCell["area-2|2026-01-05"].Covered)
	assert.False(t, byCell["area-1|2026-01-06"].Covered)
}

func TestDraftPreviewIncludesCommittedInFillMode(t *testing.T) {
	fill := []oracle.Candidate{
		{StaffID: "tech-1", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
	}
	f := newDraftFixture(&fakeGateway{candidates: fill})

	// committed RN in area-1; the draft adds the missing tech
	_, err := f.schedule.CreateShift(schedProposal("rn-1"), false)
	require.NoError(t, err)

	_, err = f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFillEmpty)
	require.NoError(t, err)

	cells, err := f.drafts.PreviewCoverage(false)
	require.NoError(t, err)

	for _, c := range cells {
		if c.AreaID == "area-1" && c.Date.Equal(schedMonday) {
			assert.True(t, c.Verdict.Covered)
			return
		}
	}
	t.Fatal("area-1 Monday cell missing from preview")
}

func TestDraftPreviewKeyedOnApplyIntent(t *testing.T) {
	// full-mode draft staffing area-1 only; area-2 is covered by a
	// committed shift the draft does not replace
	full := []oracle.Candidate{
		{StaffID: "rn-1", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
		{StaffID: "tech-1", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
	}
	f := newDraftFixture(&fakeGateway{candidates: full})

	committed := schedProposal("rn-2")
	committed.AreaID = "area-2"
	_, err := f.schedule.CreateShift(committed, false)
	require.NoError(t, err)

	_, err = f.drafts.GenerateDraft(context.Background(), schedMonday, oracle.ModeFull)
	require.NoError(t, err)

	mondayVerdict := func(cells []models.CellCoverage, areaID string) models.CoverageVerdict {
		for _, c := range cells {
			if c.AreaID == areaID && c.Date.Equal(schedMonday) {
				return c.Verdict
			}
		}
		t.Fatalf("%s Monday cell missing from preview", areaID)
		return models.CoverageVerdict{}
	}

	// additive apply keeps the committed area-2 shift in the grid
	cells, err := f.drafts.PreviewCoverage(false)
	require.NoError(t, err)
	assert.True(t, mondayVerdict(cells, "area-1").Covered)
	assert.True(t, mondayVerdict(cells, "area-2").Covered)

	// clearing apply removes it, so the preview must show the gap
	cells, err = f.drafts.PreviewCoverage(true)
	require.NoError(t, err)
	assert.True(t, mondayVerdict(cells, "area-1").Covered)
	assert.False(t, mondayVerdict(cells, "area-2").Covered)
}
