package renderer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyclecoach/engine/internal/archetype"
)

func TestWriteXMLUsesSingleQuotedDeclaration(t *testing.T) {
	out := string(WriteXML(WorkoutDoc{Author: "cyclecoach", Name: "Threshold", Description: "d"}))
	require.True(t, strings.HasPrefix(out, "<?xml version='1.0' encoding='UTF-8'?>\n"))
}

func TestWriteXMLSelfClosesSteadyStateWithoutTextEvents(t *testing.T) {
	doc := WorkoutDoc{
		Author: "a", Name: "n", Description: "d",
		Body: []archetype.Block{{Kind: archetype.BlockSteady, DurationSec: 600, Power: 0.65}},
	}
	out := string(WriteXML(doc))
	require.Contains(t, out, `<SteadyState Duration="600" Power="0.65"/>`)
	require.NotContains(t, out, "</SteadyState>")
}

func TestWriteXMLIntervalsWithTextEventsNotSelfClosing(t *testing.T) {
	doc := WorkoutDoc{
		Author: "a", Name: "n", Description: "d",
		Body: []archetype.Block{{
			Kind: archetype.BlockIntervals, Repeats: 4, OnDurationSec: 300, OnPower: 1.0, OffDurationSec: 180, OffPower: 0.5,
			TextEvents: []archetype.TextEvent{{TimeOffsetSec: 10, Message: "go"}},
		}},
	}
	out := string(WriteXML(doc))
	require.Contains(t, out, "<IntervalsT ")
	require.Contains(t, out, "</IntervalsT>")
	require.Contains(t, out, `<textevent timeoffset="10" message="go"/>`)
}

func TestWriteXMLBlockIndentIsFourSpaces(t *testing.T) {
	doc := WorkoutDoc{
		Author: "a", Name: "n", Description: "d",
		Body: []archetype.Block{{Kind: archetype.BlockSteady, DurationSec: 300, Power: 0.6}},
	}
	out := string(WriteXML(doc))
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "<SteadyState") || strings.Contains(line, "<Warmup") || strings.Contains(line, "<Cooldown") {
			require.True(t, strings.HasPrefix(line, "    <"), "expected 4-space indent, got %q", line)
		}
	}
}
