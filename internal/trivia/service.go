package trivia

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/metrics"
)

// EventPublisher is notified after questions change. Implementations must not block
// for long; failures are theirs to log.
type EventPublisher interface {
	QuestionCreated(ctx context.Context, q Question)
	QuestionDeleted(ctx context.Context, id int)
}

type nopPublisher struct{}

func (nopPublisher) QuestionCreated(context.Context, Question) {}
func (nopPublisher) QuestionDeleted(context.Context, int)      {}

// ServiceOptions carries optional collaborators.
type ServiceOptions struct {
	Selector  *Selector
	Publisher EventPublisher
	Metrics   *metrics.Metrics
	PageSize  int
}

// Service maps API operations onto the question and category stores.
type Service struct {
	questions  QuestionStore
	categories CategoryStore
	selector   *Selector
	publisher  EventPublisher
	metrics    *metrics.Metrics
	pageSize   int
	logger     zerolog.Logger
}

func NewService(questions QuestionStore, categories CategoryStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	selector := opts.Selector
	if selector == nil {
		selector = NewSelector(nil)
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = nopPublisher{}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = QuestionsPerPage
	}
	return &Service{
		questions:  questions,
		categories: categories,
		selector:   selector,
		publisher:  publisher,
		metrics:    opts.Metrics,
		pageSize:   pageSize,
		logger:     logger.With().Str("component", "trivia_service").Logger(),
	}
}

// Categories returns every category ordered by id, or ErrNotFound when there are none.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, ErrNotFound
	}
	return categories, nil
}

// QuestionsPage returns one page of questions plus the total and all categories.
// An out-of-range page yields an empty Questions slice, not an error.
func (s *Service) QuestionsPage(ctx context.Context, page int) (QuestionPage, error) {
	all, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("list questions: %w", err)
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("list categories: %w", err)
	}
	return QuestionPage{
		Questions:  Paginate(page, s.pageSize, all),
		Total:      len(all),
		Categories: categories,
	}, nil
}

// DeleteQuestion removes id and returns the caller's page recomputed after the delete.
func (s *Service) DeleteQuestion(ctx context.Context, id, page int) (DeleteResult, error) {
	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteResult{}, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return DeleteResult{}, fmt.Errorf("delete question %d: %w: %w", id, ErrUnprocessable, err)
	}
	s.metrics.QuestionMutated("delete")
	s.publisher.QuestionDeleted(ctx, id)
	s.logger.Info().Int("question_id", id).Msg("question deleted")

	remaining, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("list questions after delete: %w: %w", ErrUnprocessable, err)
	}
	return DeleteResult{
		Deleted:   id,
		Questions: Paginate(page, s.pageSize, remaining),
		Total:     len(remaining),
	}, nil
}

// CreateQuestion stores q and returns it with its assigned id.
func (s *Service) CreateQuestion(ctx context.Context, q NewQuestion) (Question, error) {
	created, err := s.questions.InsertQuestion(ctx, q)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w: %w", ErrUnprocessable, err)
	}
	s.metrics.QuestionMutated("create")
	s.publisher.QuestionCreated(ctx, created)
	s.logger.Info().Int("question_id", created.ID).Int("category", created.Category).Msg("question created")
	return created, nil
}

// Search returns questions whose text contains term, ignoring case, together with
// the distinct categories of the matches in first-seen order.
func (s *Service) Search(ctx context.Context, term string) (SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return SearchResult{}, fmt.Errorf("empty search term: %w", ErrNotFound)
	}
	matches, err := s.questions.SearchQuestions(ctx, term)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search questions: %w: %w", ErrNotFound, err)
	}

	categories := make([]int, 0)
	seen := make(map[int]struct{})
	for _, q := range matches {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}
	return SearchResult{Questions: nonNil(matches), Categories: categories}, nil
}

// QuestionsByCategory lists a category's questions; an empty category is ErrNotFound.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	questions, err := s.questions.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category %d: %w: %w", categoryID, ErrNotFound, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("category %d has no questions: %w", categoryID, ErrNotFound)
	}
	return questions, nil
}

// NextQuizQuestion returns a random unseen question, or nil once the quiz is exhausted.
// Both arguments are required; an empty previous list is fine.
func (s *Service) NextQuizQuestion(ctx context.Context, filter *QuizCategory, previous []int) (*Question, error) {
	if filter == nil || previous == nil {
		return nil, fmt.Errorf("quiz_category and previous_questions are required: %w", ErrValidation)
	}
	q, err := s.selector.Next(ctx, s.questions, *filter, previous)
	if err != nil {
		return nil, fmt.Errorf("select quiz question: %w: %w", ErrUnprocessable, err)
	}
	s.metrics.QuizServed(q != nil)
	return q, nil
}

// Ping checks the backing stores when they support it.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.questions.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func nonNil(qs []Question) []Question {
	if qs == nil {
		return []Question{}
	}
	return qs
}
