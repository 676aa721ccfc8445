package scheduler

import (
	"sort"

	"github.com/julianstephens/recall/internal/models"
)

// Train is one lineage: the acquisition card and the reviews projected from
// it, ordered by stage. Records without a batch id form a train of their own.
type Train struct {
	Key         string
	Acquisition *models.Review
	Reviews     []models.Review
}

// TrainKey returns the lineage key of a record.
func TrainKey(r models.Review) string {
	if r.BatchID != "" {
		return r.BatchID
	}
	return "legacy:" + r.ID
}

// Members returns the acquisition card (if any) followed by the reviews.
func (t Train) Members() []models.Review {
	out := make([]models.Review, 0, len(t.Reviews)+1)
	if t.Acquisition != nil {
		out = append(out, *t.Acquisition)
	}
	return append(out, t.Reviews...)
}

// NextPending returns the first pending member that comes after the member
// with the given id.
func (t Train) NextPending(id string) (models.Review, bool) {
	members := t.Members()
	for i, m := range members {
		if m.ID != id {
			continue
		}
		for _, next := range members[i+1:] {
			if !next.IsDone() {
				return next, true
			}
		}
		return models.Review{}, false
	}
	return models.Review{}, false
}

// Inversion is a pair of train members whose dates contradict their stage
// order: Earlier has the lower stage yet is dated after Later.
type Inversion struct {
	Earlier models.Review
	Later   models.Review
}

// Inversions lists every out-of-order pair in the train.
func (t Train) Inversions() []Inversion {
	members := t.Members()
	var out []Inversion
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			if stageOf(a) < stageOf(b) && a.Date > b.Date {
				out = append(out, Inversion{Earlier: a, Later: b})
			}
		}
	}
	return out
}

func stageOf(r models.Review) int {
	return r.Type.Stage()
}

// BuildTrains groups reviews into lineages, ordered by key.
func BuildTrains(reviews []models.Review) []Train {
	byKey := make(map[string]*Train)
	var keys []string

	for _, r := range reviews {
		key := TrainKey(r)
		t, ok := byKey[key]
		if !ok {
			t = &Train{Key: key}
			byKey[key] = t
			keys = append(keys, key)
		}
		if r.IsAcquisition() && t.Acquisition == nil {
			acq := r.Clone()
			t.Acquisition = &acq
			continue
		}
		t.Reviews = append(t.Reviews, r.Clone())
	}

	sort.Strings(keys)
	trains := make([]Train, 0, len(keys))
	for _, key := range keys {
		t := byKey[key]
		sort.SliceStable(t.Reviews, func(i, j int) bool {
			a, b := t.Reviews[i], t.Reviews[j]
			if stageOf(a) != stageOf(b) {
				return stageOf(a) < stageOf(b)
			}
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.ID < b.ID
		})
		trains = append(trains, *t)
	}
	return trains
}

// TrainOf returns the lineage containing the record with the given id.
func TrainOf(reviews []models.Review, id string) (Train, bool) {
	var key string
	found := false
	for _, r := range reviews {
		if r.ID == id {
			key = TrainKey(r)
			found = true
			break
		}
	}
	if !found {
		return Train{}, false
	}

	var members []models.Review
	for _, r := range reviews {
		if TrainKey(r) == key {
			members = append(members, r)
		}
	}
	trains := BuildTrains(members)
	return trains[0], true
}
