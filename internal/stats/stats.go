// Package stats reduces a component sequence to its defect summary.
package stats

import (
	"strings"

	"github.com/vraq/scene/pkg/core"
)

// Aggregate counts components by status in a single pass. Unrecognized
// statuses land in Other so Total always equals the sum of the buckets.
// Callers must aggregate fresh from the current report; the result is
// never updated incrementally.
func Aggregate(components []core.ComponentRecord) core.Statistics {
	s := core.Statistics{}
	for _, c := range components {
		s.Total++
		switch strings.ToUpper(strings.TrimSpace(c.Status)) {
		case core.StatusOK:
			s.OK++
		case core.StatusMissing:
			s.Missing++
		case core.StatusMisaligned:
			s.Misaligned++
		default:
			s.Other++
		}
	}
	return s
}
