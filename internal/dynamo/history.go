package dynamo

import "fmt"

// History is the sampled trajectory of one body lineage. A history stops
// growing once its body is consumed by a merge; EndStep then records the
// step of that merge. MergedFrom lists the bodies a merged body was built from.
type History struct {
	ID         BodyID    `json:"id"`
	Name       string    `json:"name"`
	Steps      []int     `json:"steps"`
	Xs         []float64 `json:"xs"`
	Ys         []float64 `json:"ys"`
	Zs         []float64 `json:"zs"`
	MergedFrom []BodyID  `json:"merged_from,omitempty"`
	StartStep  int       `json:"start_step"`
	EndStep    int       `json:"end_step"`
}

// Len returns the number of samples.
func (h *History) Len() int { return len(h.Xs) }

// Active reports whether the body is still part of the population.
func (h *History) Active() bool { return h.EndStep < 0 }

// Append records the position p taken at step.
func (h *History) Append(step int, p Vec3) {
	h.Steps = append(h.Steps, step)
	h.Xs = append(h.Xs, p.X)
	h.Ys = append(h.Ys, p.Y)
	h.Zs = append(h.Zs, p.Z)
}

// Point returns sample i.
func (h *History) Point(i int) Vec3 {
	return Vec3{h.Xs[i], h.Ys[i], h.Zs[i]}
}

// HistorySet holds one history per body ID, iterated in creation order.
type HistorySet struct {
	order []*History
	byID  map[BodyID]*History
}

func NewHistorySet() *HistorySet {
	return &HistorySet{byID: make(map[BodyID]*History)}
}

// Open starts an empty, active history for b. Opening an ID twice returns
// the existing history.
func (s *HistorySet) Open(b *Body, step int, mergedFrom []BodyID) *History {
	if h, ok := s.byID[b.ID]; ok {
		return h
	}
	h := &History{
		ID:         b.ID,
		Name:       b.Name,
		MergedFrom: mergedFrom,
		StartStep:  step,
		EndStep:    -1,
	}
	s.order = append(s.order, h)
	s.byID[b.ID] = h
	return h
}

// Close marks the history of id as finished at step.
func (s *HistorySet) Close(id BodyID, step int) bool {
	h, ok := s.byID[id]
	if !ok {
		return false
	}
	h.EndStep = step
	return true
}

func (s *HistorySet) Get(id BodyID) (*History, bool) {
	h, ok := s.byID[id]
	return h, ok
}

// Sample appends the current position of every body to its history.
func (s *HistorySet) Sample(step int, bodies []*Body) error {
	for _, b := range bodies {
		h, ok := s.byID[b.ID]
		if !ok {
			return fmt.Errorf("%w: no history for body %d", ErrColliderGroup, b.ID)
		}
		h.Append(step, b.Position)
	}
	return nil
}

// All returns the histories in creation order.
func (s *HistorySet) All() []*History {
	out := make([]*History, len(s.order))
	copy(out, s.order)
	return out
}

func (s *HistorySet) Len() int { return len(s.order) }
