package validation

import (
	"testing"

	"github.com/julianstephens/recall/internal/models"
)

func trainFixture() []models.Review {
	return []models.Review{
		review("x", "b-x", "2025-01-01", models.ReviewNew, 60, 1),
		review("x-24", "b-x", "2025-01-02", models.Review24H, 12, 1),
		review("x-7", "b-x", "2025-01-08", models.Review7Day, 6, 1),
		review("x-30", "b-x", "2025-01-31", models.Review30Day, 3, 1),
		review("y", "b-y", "2025-01-05", models.ReviewNew, 230, 2),
	}
}

func TestCheckMoveConstraints(t *testing.T) {
	reviews := trainFixture()
	byID := map[string]models.Review{}
	for _, r := range reviews {
		byID[r.ID] = r
	}

	tests := []struct {
		name       string
		id         string
		target     string
		capacity   bool
		chronology int
	}{
		{name: "free day", id: "x-7", target: "2025-01-06"},
		{name: "same day", id: "y", target: "2025-01-05"},
		{name: "over capacity", id: "x-24", target: "2025-01-05", capacity: true},
		{name: "before earlier stage", id: "x-7", target: "2025-01-01", chronology: 1},
		{name: "after later stages", id: "x-24", target: "2025-02-02", chronology: 2},
		{name: "past next stage only", id: "x-24", target: "2025-01-10", chronology: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := CheckMoveConstraints(byID[tt.id], tt.target, reviews, settings())
			if got := HasKind(warnings, WarningCapacity); got != tt.capacity {
				t.Errorf("capacity warning = %v, want %v (%v)", got, tt.capacity, warnings)
			}
			n := 0
			for _, w := range warnings {
				if w.Kind == WarningChronology {
					n++
					if w.Sibling == nil {
						t.Error("chronology warning without sibling")
					}
				}
			}
			if n != tt.chronology {
				t.Errorf("chronology warnings = %d, want %d (%v)", n, tt.chronology, warnings)
			}
		})
	}
}

func TestCheckMoveConstraints_CapacityNumbers(t *testing.T) {
	reviews := trainFixture()
	warnings := CheckMoveConstraints(reviews[1], "2025-01-05", reviews, settings())
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", warnings)
	}
	w := warnings[0]
	if w.ProjectedLoad != 242 || w.Capacity != 240 || w.Excess != 2 {
		t.Errorf("warning = %+v", w)
	}
}

func TestCheckMoveConstraints_ExcludesSelfFromLoad(t *testing.T) {
	r := review("big", "b-1", "2025-01-05", models.ReviewNew, 200, 1)
	other := review("o", "b-2", "2025-01-06", models.ReviewNew, 30, 2)
	// Moving within the same train is not a factor; only the target day's
	// other records count.
	warnings := CheckMoveConstraints(r, "2025-01-06", []models.Review{r, other}, settings())
	if HasKind(warnings, WarningCapacity) {
		t.Errorf("unexpected capacity warning: %v", warnings)
	}
}
