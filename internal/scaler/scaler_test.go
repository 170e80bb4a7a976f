package scaler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/planner/plandate"
)

func TestScaleEnduranceUsesPhaseRatioAndRoundsToTen(t *testing.T) {
	tmpl := Template{Type: TypeEndurance, TemplateMinutes: 60}
	scaled := Scale(tmpl, 150, plandate.PhaseBuild)
	require.Equal(t, 0, scaled.TargetMinutes%10)
	require.LessOrEqual(t, scaled.TargetMinutes, 150)
	require.GreaterOrEqual(t, scaled.TargetMinutes, tmpl.TemplateMinutes)
}

func TestScaleIntervalWorkoutCapsAt120(t *testing.T) {
	tmpl := Template{Type: TypeVO2max, TemplateMinutes: 60}
	scaled := Scale(tmpl, 240, plandate.PhaseBuild)
	require.LessOrEqual(t, scaled.TargetMinutes, intervalWorkoutCapMinutes)
}

func TestScaleNeverScalesFTPTest(t *testing.T) {
	tmpl := Template{Type: TypeFTPTest, TemplateMinutes: 60}
	scaled := Scale(tmpl, 180, plandate.PhaseBase)
	require.Equal(t, 60, scaled.TargetMinutes)
}

func TestScaleDistributesExtraToWarmupCooldownFor5545Split(t *testing.T) {
	tmpl := Template{Type: TypeThreshold, TemplateMinutes: 40, IsIntervalFixed: true}
	scaled := Scale(tmpl, 120, plandate.PhaseBuild)
	if scaled.TargetMinutes > tmpl.TemplateMinutes {
		extra := scaled.TargetMinutes - tmpl.TemplateMinutes
		require.Equal(t, extra, scaled.WarmupExtraMin+scaled.CooldownExtraMin)
		require.GreaterOrEqual(t, scaled.WarmupExtraMin, scaled.CooldownExtraMin)
	}
}
