package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestTrayIsTerminal(t *testing.T) {
	cases := []struct {
		state    LossState
		terminal bool
	}{
		{TrayActive, false},
		{TrayHarvested, true},
		{TrayLost, true},
	}
	for _, tc := range cases {
		tr := &Tray{LossState: tc.state}
		assert.Equal(t, tc.terminal, tr.IsTerminal(), "state=%s", tc.state)
	}
}

func TestTrayElapsedDays(t *testing.T) {
	tr := &Tray{SowDate: Date(2025, 6, 7)}
	assert.Equal(t, 8, tr.ElapsedDays(testNow))
	assert.Equal(t, 0, tr.ElapsedDays(Date(2025, 6, 7)))
	assert.Equal(t, -1, tr.ElapsedDays(Date(2025, 6, 6)))
}

func TestMarkHarvested_FromActive(t *testing.T) {
	tr := &Tray{LossState: TrayActive}
	require.NoError(t, tr.MarkHarvested(320, testNow, testNow))
	assert.Equal(t, TrayHarvested, tr.LossState)
	require.NotNil(t, tr.YieldGrams)
	assert.Equal(t, 320.0, *tr.YieldGrams)
	require.NotNil(t, tr.HarvestedOn)
	assert.Equal(t, Date(2025, 6, 15), *tr.HarvestedOn)
	assert.Equal(t, testNow, tr.UpdatedAt)
}

func TestMarkHarvested_FromLost(t *testing.T) {
	tr := &Tray{LossState: TrayLost}
	err := tr.MarkHarvested(100, testNow, testNow)
	require.ErrorIs(t, err, ErrTrayNotActive)
	assert.Equal(t, TrayLost, tr.LossState, "state should not change")
}

func TestMarkHarvested_NegativeYield(t *testing.T) {
	tr := &Tray{LossState: TrayActive}
	err := tr.MarkHarvested(-1, testNow, testNow)
	require.ErrorIs(t, err, ErrYieldRequired)
	assert.Equal(t, TrayActive, tr.LossState)
}

func TestMarkLost_FromActive(t *testing.T) {
	tr := &Tray{LossState: TrayActive}
	require.NoError(t, tr.MarkLost(LossMold, "white fuzz on corner", testNow))
	assert.Equal(t, TrayLost, tr.LossState)
	require.NotNil(t, tr.LossReason)
	assert.Equal(t, LossMold, *tr.LossReason)
	assert.Equal(t, "white fuzz on corner", tr.LossNote)
}

func TestMarkLost_InvalidReason(t *testing.T) {
	tr := &Tray{LossState: TrayActive}
	err := tr.MarkLost(LossReason("bad luck"), "", testNow)
	require.ErrorIs(t, err, ErrInvalidLossReason)
	assert.Equal(t, TrayActive, tr.LossState)
}

func TestMarkLost_TerminalStatesStayTerminal(t *testing.T) {
	for _, state := range []LossState{TrayHarvested, TrayLost} {
		tr := &Tray{LossState: state}
		err := tr.MarkLost(LossPest, "", testNow)
		require.ErrorIs(t, err, ErrTrayNotActive, "state=%s", state)
		assert.Equal(t, state, tr.LossState)
	}
}

func TestStepDayContribution(t *testing.T) {
	cases := []struct {
		step Step
		want int
	}{
		{Step{Duration: 3, Unit: UnitDays}, 3},
		{Step{Duration: 0, Unit: UnitDays}, 0},
		{Step{Duration: 8, Unit: UnitHours}, 1},
		{Step{Duration: 24, Unit: UnitHours}, 1},
		{Step{Duration: 25, Unit: UnitHours}, 2},
		{Step{Duration: 0, Unit: UnitHours}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.step.DayContribution(), "%d %s", tc.step.Duration, tc.step.Unit)
	}
}

func TestRecipeValidationError_MatchesSentinel(t *testing.T) {
	err := &RecipeValidationError{RecipeID: "r1", Problems: []string{"a", "b"}}
	assert.ErrorIs(t, err, ErrInvalidRecipe)
	assert.Equal(t, "invalid recipe r1: a; b", err.Error())
}
