package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// questionStore is the subset of *pgxpool.Pool the repositories use.
type questionStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const questionColumns = `id, question, answer, difficulty, category`

const (
	listQuestionsSQL = `SELECT ` + questionColumns + ` FROM questions ORDER BY id`

	insertQuestionSQL = `INSERT INTO questions (question, answer, difficulty, category)
VALUES ($1, $2, $3, $4)
RETURNING ` + questionColumns

	lockQuestionSQL = `SELECT id FROM questions WHERE id = $1 FOR UPDATE`

	deleteQuestionSQL = `DELETE FROM questions WHERE id = $1`

	searchQuestionsSQL = `SELECT ` + questionColumns + ` FROM questions
WHERE question ILIKE $1 ESCAPE '\'
ORDER BY id`

	questionsByCategorySQL = `SELECT ` + questionColumns + ` FROM questions WHERE category = $1 ORDER BY id`

	quizCandidatesSQL = `SELECT ` + questionColumns + ` FROM questions
WHERE ($1::int IS NULL OR category = $1::int)
  AND NOT (id = ANY($2::int[]))
ORDER BY id`
)

// QuestionRepository implements trivia.QuestionStore on Postgres.
type QuestionRepository struct {
	store questionStore
}

var _ trivia.QuestionStore = (*QuestionRepository)(nil)

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// ListQuestions returns every question ordered by id.
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]trivia.Question, error) {
	return r.query(ctx, listQuestionsSQL)
}

// InsertQuestion stores a question and returns it with the generated id.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, nq trivia.NewQuestion) (trivia.Question, error) {
	var q trivia.Question
	err := r.store.QueryRow(ctx, insertQuestionSQL, nq.Question, nq.Answer, nq.Difficulty, nq.Category).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category)
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

// DeleteQuestion locks the row and deletes it in one transaction.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	return pgx.BeginFunc(ctx, r.store, func(tx pgx.Tx) error {
		var found int
		if err := tx.QueryRow(ctx, lockQuestionSQL, id).Scan(&found); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return trivia.ErrNotFound
			}
			return fmt.Errorf("lock question %d: %w", id, err)
		}
		if _, err := tx.Exec(ctx, deleteQuestionSQL, id); err != nil {
			return fmt.Errorf("delete question %d: %w", id, err)
		}
		return nil
	})
}

// SearchQuestions matches term anywhere in the question text, ignoring case.
func (r *QuestionRepository) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	return r.query(ctx, searchQuestionsSQL, "%"+escapeLike(term)+"%")
}

// ListQuestionsByCategory returns the questions of one category.
func (r *QuestionRepository) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]trivia.Question, error) {
	return r.query(ctx, questionsByCategorySQL, categoryID)
}

// ListQuizCandidates returns unseen questions, optionally limited to one category.
func (r *QuestionRepository) ListQuizCandidates(ctx context.Context, categoryID *int, exclude []int) ([]trivia.Question, error) {
	if exclude == nil {
		// a NULL array would make NOT (id = ANY(...)) NULL for every row
		exclude = []int{}
	}
	return r.query(ctx, quizCandidatesSQL, categoryID, exclude)
}

// Ping checks database connectivity.
func (r *QuestionRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *QuestionRepository) query(ctx context.Context, sql string, args ...any) ([]trivia.Question, error) {
	rows, err := r.store.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]trivia.Question, 0)
	for rows.Next() {
		var q trivia.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
