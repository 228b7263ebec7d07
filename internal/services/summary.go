package services

import (
	"fmt"
	"strings"

	"moto-route-service/internal/domain"
)

// Cap per-route step mentions to keep selector feedback manageable.
const summaryMaxSteps = 12

// routeSummary renders a human-readable description of where a failed
// route actually went — road names and distances pulled from step
// instructions — so the selector can see exactly what to avoid.
func routeSummary(route *domain.ResolvedRoute) string {
	if route == nil || len(route.Steps) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, fmt.Sprintf(
		"Route: %.1f km over %d steps, starting at %s",
		route.TotalDistanceMeters/1000, len(route.Steps), startLabel(route),
	))

	for i, step := range route.Steps {
		if i >= summaryMaxSteps {
			lines = append(lines, fmt.Sprintf("  ... and %d more steps", len(route.Steps)-summaryMaxSteps))
			break
		}
		instr := cleanInstruction(step.Instruction)
		if instr == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("  - %s (%.0fm)", instr, step.DistanceMeters))
	}

	return strings.Join(lines, "\n")
}

func startLabel(route *domain.ResolvedRoute) string {
	if route.StartAddress != "" {
		return route.StartAddress
	}
	return route.Steps[0].StartLocation.String()
}

// cleanInstruction strips the HTML markup some directions providers embed
// in instruction text.
func cleanInstruction(s string) string {
	replacer := strings.NewReplacer(
		"<b>", "", "</b>", "",
		"<div>", " | ", "</div>", "",
		"<wbr/>", "",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
