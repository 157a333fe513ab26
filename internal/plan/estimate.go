// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// Effort bounds and weights, in hours.
const (
	MinHours            = 2.0
	MaxHours            = 40.0
	BaseHours           = 6.0
	HoursPerDeliverable = 2.0
	MaxPointsHours      = 10.0
)

var leadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// EstimateHours maps an assignment to a total effort in [MinHours, MaxHours]:
// a base budget, two hours per deliverable, and a share of the weight.
func EstimateHours(a types.Assignment) float64 {
	hours := BaseHours + HoursPerDeliverable*float64(len(a.Deliverables))
	hours += weightHours(a.Weight)
	return math.Max(MinHours, math.Min(MaxHours, hours))
}

// weightHours adds a tenth of a percentage, or a fifth of a point count
// capped at MaxPointsHours. Unparsable weights add nothing.
func weightHours(weight string) float64 {
	if strings.Contains(weight, "%") {
		m := leadingNumber.FindStringSubmatch(weight)
		if m == nil {
			return 0
		}
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return pct / 10
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, weight)
	if digits == "" {
		return 0
	}
	points, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return math.Min(MaxPointsHours, points/5)
}
