package export

import (
	"fmt"
	"strings"
)

// EnergyTraceToSVG renders a time series as a single-path SVG line plot,
// autoscaled with a 10% margin on both axes.
func EnergyTraceToSVG(times, energies []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(energies) {
		return ""
	}

	minT, maxT := times[0], times[len(times)-1]
	minE, maxE := energies[0], energies[0]
	for _, e := range energies {
		if e < minE {
			minE = e
		}
		if e > maxE {
			maxE = e
		}
	}

	rangeT := maxT - minT
	rangeE := maxE - minE
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeE == 0 {
		rangeE = 1
	}
	minE -= rangeE * 0.1
	maxE += rangeE * 0.1
	rangeE = maxE - minE

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range times {
		x := (times[i] - minT) / rangeT * float64(width)
		y := float64(height) - (energies[i]-minE)/rangeE*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
