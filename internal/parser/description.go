package parser

import (
	"strings"
)

// descriptionStopMarkers end the description capture window. They anchor
// on the trailing boilerplate every detail page carries: the related
// listings banner and the membership upsell.
var descriptionStopMarkers = []string{
	"Other Jobs You May Like",
	"Become a Premium Member",
}

// WindowDescription implements the default description heuristic: capture
// begins after the first line exactly matching the title (the boundary
// between page chrome and body) and ends at the first trailing
// boilerplate marker. Captured non-empty lines are joined with newlines.
//
// This is a text-window heuristic, not a DOM-semantic extraction: it
// survives layout changes that keep the anchor strings intact.
func WindowDescription(lines []string, title string) string {
	var captured []string
	capturing := false

	for _, line := range lines {
		if !capturing {
			if line == title {
				capturing = true
			}
			continue
		}

		if isStopMarker(line) {
			break
		}

		captured = append(captured, line)
	}

	return strings.Join(captured, "\n")
}

// isStopMarker reports whether the line begins a trailing boilerplate block.
func isStopMarker(line string) bool {
	for _, marker := range descriptionStopMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
