package scheduler

import (
	"math"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
)

// Interval is one projected review: how many days after the acquisition it
// falls, the card type it produces and the share of study time it gets.
type Interval struct {
	Days  int
	Type  models.ReviewType
	Ratio float64
}

var integratedIntervals = []Interval{
	{Days: 1, Type: models.Review24H, Ratio: constants.CompressionRatio1Day},
	{Days: 7, Type: models.Review7Day, Ratio: constants.CompressionRatio7Day},
	{Days: 30, Type: models.Review30Day, Ratio: constants.CompressionRatio30Day},
}

var pendularIntervals = []Interval{
	{Days: 1, Type: models.Review24H, Ratio: constants.CompressionRatio1Day},
	{Days: 8, Type: models.Review8Day, Ratio: constants.CompressionRatio7Day},
	{Days: 31, Type: models.Review31Day, Ratio: constants.CompressionRatio30Day},
}

// Intervals returns the review intervals for a profile.
func Intervals(profile models.Profile) []Interval {
	src := integratedIntervals
	if profile == models.ProfilePendular {
		src = pendularIntervals
	}
	out := make([]Interval, len(src))
	copy(out, src)
	return out
}

// percent converts a ratio constant to whole percent so the arithmetic below
// stays in integers.
func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

// EstimateReviewTime compresses a study duration for one review:
// max(MinReviewMinutes, ceil(studyMin × ratio)), with the ratio raised to
// HighComplexityFloorRatio for HIGH complexity material.
func EstimateReviewTime(studyMin int, ratio float64, complexity models.Complexity) int {
	pct := percent(ratio)
	if complexity == models.ComplexityHigh {
		if floor := percent(constants.HighComplexityFloorRatio); pct < floor {
			pct = floor
		}
	}
	est := (studyMin*pct + 99) / 100
	if est < constants.MinReviewMinutes {
		est = constants.MinReviewMinutes
	}
	return est
}

// ReviewCeiling is floor(capacity × ReviewCeilingRatio).
func ReviewCeiling(dailyCapacityMin int) int {
	return dailyCapacityMin * percent(constants.ReviewCeilingRatio) / 100
}
