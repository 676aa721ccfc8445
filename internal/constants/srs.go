package constants

const (
	// Review projection:
	// - ReviewCeilingRatio is the share of daily capacity that projected reviews
	//   may occupy on any single day at creation time.
	// - Compression ratios scale the original study time down for each review.
	// - HighComplexityFloorRatio is the lowest ratio allowed for HIGH complexity material.
	ReviewCeilingRatio       = 0.40
	CompressionRatio1Day     = 0.20
	CompressionRatio7Day     = 0.10
	CompressionRatio30Day    = 0.05
	HighComplexityFloorRatio = 0.15
	MinReviewMinutes         = 2

	// PendularSessionCapMin is the longest single study entry accepted under the pendular profile
	PendularSessionCapMin = 60

	// WaterfallMaxIterations bounds the day-by-day rebalance walk
	WaterfallMaxIterations = 90
)

func init() {
	if ReviewCeilingRatio <= 0 || ReviewCeilingRatio > 1 {
		panic("ReviewCeilingRatio must be within (0, 1]")
	}
}
