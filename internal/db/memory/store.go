package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Store is an in-process question bank used for local runs and tests.
type Store struct {
	mu         sync.RWMutex
	nextID     int
	questions  map[int]trivia.Question
	categories map[int]trivia.Category
}

var (
	_ trivia.QuestionStore = (*Store)(nil)
	_ trivia.CategoryStore = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		nextID:     1,
		questions:  make(map[int]trivia.Question),
		categories: make(map[int]trivia.Category),
	}
}

// DefaultCategories mirrors the rows seeded by the SQL migrations.
func DefaultCategories() []trivia.Category {
	return []trivia.Category{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
		{ID: 4, Type: "History"},
		{ID: 5, Type: "Entertainment"},
		{ID: 6, Type: "Sports"},
	}
}

// SeedCategories replaces the category table.
func (s *Store) SeedCategories(categories ...trivia.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make(map[int]trivia.Category, len(categories))
	for _, c := range categories {
		s.categories[c.ID] = c
	}
}

func (s *Store) ListCategories(_ context.Context) ([]trivia.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trivia.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListQuestions(_ context.Context) ([]trivia.Question, error) {
	return s.filter(func(trivia.Question) bool { return true }), nil
}

func (s *Store) InsertQuestion(_ context.Context, nq trivia.NewQuestion) (trivia.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := trivia.Question{
		ID:         s.nextID,
		Question:   nq.Question,
		Answer:     nq.Answer,
		Difficulty: nq.Difficulty,
		Category:   nq.Category,
	}
	s.questions[q.ID] = q
	s.nextID++
	return q, nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return trivia.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) SearchQuestions(_ context.Context, term string) ([]trivia.Question, error) {
	needle := strings.ToLower(term)
	return s.filter(func(q trivia.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (s *Store) ListQuestionsByCategory(_ context.Context, categoryID int) ([]trivia.Question, error) {
	return s.filter(func(q trivia.Question) bool { return q.Category == categoryID }), nil
}

func (s *Store) ListQuizCandidates(_ context.Context, categoryID *int, exclude []int) ([]trivia.Question, error) {
	excluded := make(map[int]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}
	return s.filter(func(q trivia.Question) bool {
		if categoryID != nil && q.Category != *categoryID {
			return false
		}
		_, skip := excluded[q.ID]
		return !skip
	}), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) filter(keep func(trivia.Question) bool) []trivia.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]trivia.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
