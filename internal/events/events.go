package events

import (
	"time"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Event types, shared with the websocket message types.
const (
	TypeQuestionCreated = ws.TypeQuestionCreated
	TypeQuestionDeleted = ws.TypeQuestionDeleted
)

// QuestionEvent is published whenever the question bank changes.
type QuestionEvent struct {
	Type       string           `json:"type"`
	QuestionID int              `json:"question_id"`
	Question   *trivia.Question `json:"question,omitempty"`
	At         time.Time        `json:"at"`
}
