package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// openTDBCategories maps seeded category ids onto Open Trivia DB category ids.
var openTDBCategories = map[int]int{
	1: 17, // Science & Nature
	2: 25, // Art
	3: 22, // Geography
	4: 23, // History
	5: 11, // Entertainment: Film
	6: 21, // Sports
}

// difficulties maps OpenTDB labels onto the 1-5 rating scale.
var difficulties = map[string]int{
	"easy":   1,
	"medium": 3,
	"hard":   5,
}

type questionSource interface {
	Fetch(ctx context.Context, amount, category int, difficulty string) ([]OpenTDBQuestion, error)
}

type questionCreator interface {
	CreateQuestion(ctx context.Context, q trivia.NewQuestion) (trivia.Question, error)
}

// Importer copies external questions into the question bank.
type Importer struct {
	source  questionSource
	creator questionCreator
	logger  zerolog.Logger
}

func New(source questionSource, creator questionCreator, logger zerolog.Logger) *Importer {
	return &Importer{
		source:  source,
		creator: creator,
		logger:  logger.With().Str("component", "importer").Logger(),
	}
}

// Import fetches up to amount questions for categoryID and inserts them, returning
// how many were stored. It stops at the first insert failure.
func (i *Importer) Import(ctx context.Context, categoryID, amount int, difficulty string) (int, error) {
	remote, ok := openTDBCategories[categoryID]
	if !ok {
		return 0, fmt.Errorf("category %d has no opentdb mapping", categoryID)
	}

	fetched, err := i.source.Fetch(ctx, amount, remote, difficulty)
	if err != nil {
		return 0, fmt.Errorf("fetch opentdb: %w", err)
	}

	imported := 0
	for _, q := range fetched {
		created, err := i.creator.CreateQuestion(ctx, toNewQuestion(q, categoryID))
		if err != nil {
			return imported, fmt.Errorf("store imported question: %w", err)
		}
		imported++
		i.logger.Debug().Int("question_id", created.ID).Msg("question imported")
	}

	i.logger.Info().Int("category", categoryID).Int("imported", imported).Msg("import finished")
	return imported, nil
}

func toNewQuestion(q OpenTDBQuestion, categoryID int) trivia.NewQuestion {
	difficulty, ok := difficulties[q.Difficulty]
	if !ok {
		difficulty = difficulties["medium"]
	}
	return trivia.NewQuestion{
		Question:   q.Question,
		Answer:     q.CorrectAnswer,
		Difficulty: difficulty,
		Category:   categoryID,
	}
}
