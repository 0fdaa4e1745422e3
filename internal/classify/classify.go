// Package classify maps component statuses to their visual treatment.
package classify

import (
	"strings"

	"github.com/vraq/scene/pkg/core"
)

// Marker colors per status.
const (
	ColorOK         = "#4caf50"
	ColorMissing    = "#f44336"
	ColorMisaligned = "#ffc107"
	ColorError      = "#9c27b0"
	ColorDefault    = "#9e9e9e"
)

// Classification is the visual treatment for one status.
type Classification struct {
	Color     string
	Animation core.AnimationKind
	Severity  int
}

// Classify returns the visual treatment for a raw status string.
// Total over all inputs: unrecognized statuses get the neutral default
// so the pipeline degrades gracefully on backend schema drift.
func Classify(status string) Classification {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case core.StatusOK:
		return Classification{Color: ColorOK, Animation: core.AnimationGlow, Severity: 0}
	case core.StatusMissing:
		return Classification{Color: ColorMissing, Animation: core.AnimationPulse, Severity: 2}
	case core.StatusMisaligned:
		return Classification{Color: ColorMisaligned, Animation: core.AnimationBounce, Severity: 1}
	case core.StatusError:
		return Classification{Color: ColorError, Animation: core.AnimationFlash, Severity: 3}
	default:
		return Classification{Color: ColorDefault, Animation: core.AnimationNone, Severity: 0}
	}
}
