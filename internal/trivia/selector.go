package trivia

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// RandomSource yields a uniform integer in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// lockedSource makes a *rand.Rand safe for concurrent handlers.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSeededSource returns a deterministic, goroutine-safe source. A zero seed
// falls back to the runtime-seeded global generator.
func NewSeededSource(seed uint64) RandomSource {
	if seed == 0 {
		return globalSource{}
	}
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Selector picks the next unseen quiz question.
type Selector struct {
	rng RandomSource
}

func NewSelector(rng RandomSource) *Selector {
	if rng == nil {
		rng = globalSource{}
	}
	return &Selector{rng: rng}
}

// Next returns a uniformly random question matching filter whose id is not in
// previous, or nil when every candidate has been served.
func (s *Selector) Next(ctx context.Context, store QuestionStore, filter QuizCategory, previous []int) (*Question, error) {
	var category *int
	if !filter.All() {
		id := int(filter.ID)
		category = &id
	}

	candidates, err := store.ListQuizCandidates(ctx, category, previous)
	if err != nil {
		return nil, fmt.Errorf("list quiz candidates: %w", err)
	}
	return s.Pick(candidates, previous), nil
}

// Pick draws one element of candidates whose id is not in previous.
func (s *Selector) Pick(candidates []Question, previous []int) *Question {
	if len(previous) > 0 {
		seen := make(map[int]struct{}, len(previous))
		for _, id := range previous {
			seen[id] = struct{}{}
		}
		filtered := candidates[:0:0]
		for _, q := range candidates {
			if _, ok := seen[q.ID]; !ok {
				filtered = append(filtered, q)
			}
		}
		candidates = filtered
	}
	if len(candidates) == 0 {
		return nil
	}
	picked := candidates[s.rng.IntN(len(candidates))]
	return &picked
}
