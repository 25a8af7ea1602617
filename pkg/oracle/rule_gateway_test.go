package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleRequest() Request {
	return Request{
		WeekStart: "2026-01-05",
		Mode:      ModeFull,
		Staff: []StaffInfo{
			{ID: "rn-1", Name: "Alice", Role: "RN", ShiftLength: 8, DaysPerWeek: 5},
			{ID: "rn-2", Name: "Beth", Role: "RN", ShiftLength: 8, DaysPerWeek: 5},
			{ID: "tech-1", Name: "Carl", Role: "GI_Tech", ShiftLength: 8, DaysPerWeek: 5},
		},
		Areas: []AreaInfo{
			{ID: "area-1", Name: "Endoscopy", RequiredRNCount: 1, RequiredTechCount: 1},
		},
	}
}

func TestRuleGatewayDeterministic(t *testing.T) {
	g := NewRuleGateway()

	first, err := g.GenerateCandidates(context.Background(), ruleRequest())
	require.NoError(t, err)
	second, err := g.GenerateCandidates(context.Background(), ruleRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRuleGatewayFillsRequirements(t *testing.T) {
	g := NewRuleGateway()

	candidates, err := g.GenerateCandidates(context.Background(), ruleRequest())
	require.NoError(t, err)
	// 1 RN + 1 tech, Monday through Friday
	require.Len(t, candidates, 10)

	perDay := make(map[string][]Candidate)
	for _, c := range candidates {
		perDay[c.Date] = append(perDay[c.Date], c)
	}
	require.Len(t, perDay, 5)
	assert.NotContains(t, perDay, "2026-01-10") // no weekend shifts

	for date, day := range perDay {
		roles := map[string]int{}
		for _, c := range day {
			switch c.StaffID {
			case "rn-1", "rn-2":
				roles["RN"]++
			case "tech-1":
				roles["GI_Tech"]++
			}
		}
		assert.Equal(t, 1, roles["RN"], "RN count on %s", date)
		assert.Equal(t, 1, roles["GI_Tech"], "tech count on %s", date)
	}
}

func TestRuleGatewayShiftTimes(t *testing.T) {
	g := NewRuleGateway()

	req := ruleRequest()
	preferred := "09:00"
	req.Staff[0].StartTime = preferred
	req.Staff = req.Staff[:1] // Alice only
	req.Areas[0].RequiredTechCount = 0

	candidates, err := g.GenerateCandidates(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.Equal(t, "09:00", c.StartTime)
		assert.Equal(t, "17:00", c.EndTime)
	}
}

func TestRuleGatewayDefaultStartByRole(t *testing.T) {
	g := NewRuleGateway()

	req := Request{
		WeekStart: "2026-01-05",
		Mode:      ModeFull,
		Staff: []StaffInfo{
			{ID: "st-1", Name: "Dana", Role: "Scope_Tech", ShiftLength: 8, DaysPerWeek: 5},
		},
		Areas: []AreaInfo{
			{ID: "area-1", Name: "Procedure", RequiredScopeTechCount: 1},
		},
	}

	candidates, err := g.GenerateCandidates(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, "07:30", candidates[0].StartTime)
	assert.Equal(t, "15:30", candidates[0].EndTime)
}

func TestRuleGatewayHonorsConstraints(t *testing.T) {
	g := NewRuleGateway()

	t.Run("Required Days Off", func(t *testing.T) {
		req := ruleRequest()
		req.Staff = req.Staff[:1]
		req.Staff[0].RequiredDaysOff = []string{"Monday"}
		req.Areas[0].RequiredTechCount = 0

		candidates, err := g.GenerateCandidates(context.Background(), req)
		require.NoError(t, err)
		for _, c := range candidates {
			assert.NotEqual(t, "2026-01-05", c.Date)
		}
	})

	t.Run("Area Restrictions", func(t *testing.T) {
		req := ruleRequest()
		req.Staff[0].AllowedAreas = []string{"Recovery"}
		req.Staff = req.Staff[:1]
		req.Areas[0].RequiredTechCount = 0

		candidates, err := g.GenerateCandidates(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("Time Off", func(t *testing.T) {
		req := ruleRequest()
		req.Staff = req.Staff[:1]
		req.Areas[0].RequiredTechCount = 0
		req.TimeOff = []TimeOffInfo{{
			StaffID: "rn-1", StartDate: "2026-01-06", EndDate: "2026-01-08",
		}}

		candidates, err := g.GenerateCandidates(context.Background(), req)
		require.NoError(t, err)
		dates := make(map[string]bool)
		for _, c := range candidates {
			dates[c.Date] = true
		}
		assert.Equal(t, map[string]bool{"2026-01-05": true, "2026-01-09": true}, dates)
	})

	t.Run("Ten Hour Staff Capped At Four Days", func(t *testing.T) {
		req := ruleRequest()
		req.Staff = []StaffInfo{
			{ID: "rn-1", Name: "Alice", Role: "RN", ShiftLength: 10, DaysPerWeek: 5},
		}
		req.Areas[0].RequiredTechCount = 0

		candidates, err := g.GenerateCandidates(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, candidates, 4)
	})

	t.Run("No Double Booking Across Areas", func(t *testing.T) {
		req := ruleRequest()
		req.Staff = req.Staff[:1]
		req.Areas = []AreaInfo{
			{ID: "area-1", Name: "Endoscopy", RequiredRNCount: 1},
			{ID: "area-2", Name: "Recovery", RequiredRNCount: 1},
		}

		candidates, err := g.GenerateCandidates(context.Background(), req)
		require.NoError(t, err)
		seen := make(map[string]bool)
		for _, c := range candidates {
			key := c.StaffID + "|" + c.Date
			assert.False(t, seen[key], "double booking for %s", key)
			seen[key] = true
		}
	})
}

func TestRuleGatewayBalancesLoad(t *testing.T) {
	g := NewRuleGateway()

	// 2 RNs for 1 slot/day: the least-loaded picker should alternate
	req := ruleRequest()
	req.Areas[0].RequiredTechCount = 0

	candidates, err := g.GenerateCandidates(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, candidates, 5)

	perStaff := make(map[string]int)
	for _, c := range candidates {
		perStaff[c.StaffID]++
	}
	assert.LessOrEqual(t, perStaff["rn-1"], 3)
	assert.LessOrEqual(t, perStaff["rn-2"], 3)
}

func TestRuleGatewayFillEmptySkipsOccupiedCells(t *testing.T) {
	g := NewRuleGateway()

	req := ruleRequest()
	req.Mode = ModeFillEmpty
	req.Existing = []ExistingShift{
		{StaffID: "rn-2", AreaID: "area-1", Date: "2026-01-05", StartTime: "07:00", EndTime: "15:00"},
	}

	candidates, err := g.GenerateCandidates(context.Background(), req)
	require.NoError(t, err)
	for _, c := range candidates {
		assert.NotEqual(t, "2026-01-05", c.Date)
	}
}

func TestRuleGatewayCancelled(t *testing.T) {
	g := NewRuleGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateCandidates(ctx, ruleRequest())
	assert.ErrorIs(t, err, context.Canceled)
}
