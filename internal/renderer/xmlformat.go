// Package renderer selects and writes the per-day workout files: per-type
// block composition, FTP-test injection, hard/easy alternation, and a
// hand-built XML writer that hits a bit-exact dialect no generic
// marshaler produces (single-quoted declaration, fixed indentation,
// conditional self-closing elements).
package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cyclecoach/engine/internal/archetype"
)

// WorkoutDoc is the in-memory workout document the XML writer serializes.
// Warmup and Cooldown are carried separately from Body since the XML
// dialect gives them distinct tag names over the same PowerLow/PowerHigh
// shape as a Ramp block.
type WorkoutDoc struct {
	Author        string
	Name          string
	Description   string
	WarmupSec     int
	WarmupLow     float64
	WarmupHigh    float64
	Body          []archetype.Block
	CooldownSec   int
	CooldownLow   float64
	CooldownHigh  float64
}

const xmlDecl = `<?xml version='1.0' encoding='UTF-8'?>`

// WriteXML renders doc into the bit-exact workout_file XML dialect.
func WriteXML(doc WorkoutDoc) []byte {
	var b strings.Builder
	b.WriteString(xmlDecl)
	b.WriteByte('\n')
	b.WriteString("<workout_file>\n")
	writeLeaf(&b, 2, "author", doc.Author)
	writeLeaf(&b, 2, "name", doc.Name)
	writeLeaf(&b, 2, "description", doc.Description)
	writeLeaf(&b, 2, "sportType", "bike")
	b.WriteString("  <workout>\n")
	b.WriteString(warmupTag(doc.WarmupSec, doc.WarmupLow, doc.WarmupHigh))
	for _, block := range doc.Body {
		writeBlock(&b, block)
	}
	b.WriteString(cooldownTag(doc.CooldownSec, doc.CooldownLow, doc.CooldownHigh))
	b.WriteString("  </workout>\n")
	b.WriteString("</workout_file>\n")
	return []byte(b.String())
}

func writeLeaf(b *strings.Builder, indent int, tag, value string) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", pad, tag, escape(value), tag)
}

func writeBlock(b *strings.Builder, block archetype.Block) {
	const indent = "    "
	switch block.Kind {
	case archetype.BlockSteady:
		fmt.Fprintf(b, "%s<SteadyState Duration=\"%d\" Power=\"%s\"/>\n",
			indent, block.DurationSec, formatPower(block.Power))
	case archetype.BlockIntervals:
		if len(block.TextEvents) == 0 {
			fmt.Fprintf(b, "%s<IntervalsT Repeat=\"%d\" OnDuration=\"%d\" OnPower=\"%s\" OffDuration=\"%d\" OffPower=\"%s\"/>\n",
				indent, block.Repeats, block.OnDurationSec, formatPower(block.OnPower), block.OffDurationSec, formatPower(block.OffPower))
		} else {
			fmt.Fprintf(b, "%s<IntervalsT Repeat=\"%d\" OnDuration=\"%d\" OnPower=\"%s\" OffDuration=\"%d\" OffPower=\"%s\">\n",
				indent, block.Repeats, block.OnDurationSec, formatPower(block.OnPower), block.OffDurationSec, formatPower(block.OffPower))
			writeTextEvents(b, block.TextEvents)
			fmt.Fprintf(b, "%s</IntervalsT>\n", indent)
		}
	case archetype.BlockFreeRide:
		if len(block.TextEvents) == 0 {
			fmt.Fprintf(b, "%s<FreeRide Duration=\"%d\"/>\n", indent, block.DurationSec)
		} else {
			fmt.Fprintf(b, "%s<FreeRide Duration=\"%d\">\n", indent, block.DurationSec)
			writeTextEvents(b, block.TextEvents)
			fmt.Fprintf(b, "%s</FreeRide>\n", indent)
		}
	case archetype.BlockRamp:
		fmt.Fprintf(b, "%s<Ramp Duration=\"%d\" PowerLow=\"%s\" PowerHigh=\"%s\"/>\n",
			indent, block.DurationSec, formatPower(block.PowerLow), formatPower(block.PowerHigh))
	}
}

// warmupTag and cooldownTag are separate from writeBlock because the
// XML dialect uses distinct tag names (Warmup/Cooldown) for the same
// PowerLow/PowerHigh shape as Ramp.
func warmupTag(durationSec int, powerLow, powerHigh float64) string {
	return fmt.Sprintf("    <Warmup Duration=\"%d\" PowerLow=\"%s\" PowerHigh=\"%s\"/>\n",
		durationSec, formatPower(powerLow), formatPower(powerHigh))
}

func cooldownTag(durationSec int, powerLow, powerHigh float64) string {
	return fmt.Sprintf("    <Cooldown Duration=\"%d\" PowerLow=\"%s\" PowerHigh=\"%s\"/>\n",
		durationSec, formatPower(powerLow), formatPower(powerHigh))
}

func writeTextEvents(b *strings.Builder, events []archetype.TextEvent) {
	for _, e := range events {
		fmt.Fprintf(b, "      <textevent timeoffset=\"%d\" message=\"%s\"/>\n", e.TimeOffsetSec, escape(e.Message))
	}
}

func formatPower(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
