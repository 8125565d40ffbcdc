package trivia

import "context"

// QuestionStore is the persistence contract for questions. Listings are ordered by id.
type QuestionStore interface {
	ListQuestions(ctx context.Context) ([]Question, error)
	InsertQuestion(ctx context.Context, q NewQuestion) (Question, error)
	// DeleteQuestion removes the question atomically, returning ErrNotFound when absent.
	DeleteQuestion(ctx context.Context, id int) error
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)
	// ListQuizCandidates returns questions outside exclude, limited to categoryID when non-nil.
	ListQuizCandidates(ctx context.Context, categoryID *int, exclude []int) ([]Question, error)
}

// CategoryStore exposes the read-only category table.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
