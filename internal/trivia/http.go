package trivia

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler exposes the question bank over JSON.
type HTTPHandler struct {
	svc      *Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHTTPHandler constructs the question bank HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Register mounts the API routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.HandleListCategories)
	mux.HandleFunc("GET /categories/{id}/questions", h.HandleQuestionsByCategory)
	mux.HandleFunc("GET /questions", h.HandleListQuestions)
	mux.HandleFunc("POST /questions", h.HandleCreateQuestion)
	mux.HandleFunc("POST /questions/search", h.HandleSearchQuestions)
	mux.HandleFunc("DELETE /questions/{id}", h.HandleDeleteQuestion)
	mux.HandleFunc("POST /quizzes", h.HandlePlayQuiz)
}

// CreateQuestionRequest is the POST /questions body. All four keys must be present.
type CreateQuestionRequest struct {
	Question   *string  `json:"question" validate:"required"`
	Answer     *string  `json:"answer" validate:"required"`
	Difficulty *FlexInt `json:"difficulty" validate:"required"`
	Category   *FlexInt `json:"category" validate:"required"`
}

// SearchRequest is the POST /questions/search body.
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// QuizRequest is the POST /quizzes body.
type QuizRequest struct {
	PreviousQuestions *[]FlexInt    `json:"previous_questions" validate:"required"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}

// HandleListCategories responds with the id -> type mapping of all categories.
// Route: GET /categories
func (h *HTTPHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"success":    true,
		"categories": CategoryMap(categories),
	})
}

// HandleListQuestions responds with one page of questions.
// Route: GET /questions?page=1
func (h *HTTPHandler) HandleListQuestions(w http.ResponseWriter, r *http.Request) {
	page := ParsePage(r.URL.Query().Get("page"))
	result, err := h.svc.QuestionsPage(r.Context(), page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if len(result.Questions) == 0 {
		writeJSON(w, map[string]interface{}{
			"success": false,
			"message": httperrors.MsgResourceNotFound,
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"categories":       CategoryMap(result.Categories),
		"current_category": nil,
	})
}

// HandleDeleteQuestion deletes a question and returns the refreshed page.
// Route: DELETE /questions/{id}?page=1
func (h *HTTPHandler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	page := ParsePage(r.URL.Query().Get("page"))
	result, err := h.svc.DeleteQuestion(r.Context(), id, page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"deleted":         result.Deleted,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// HandleCreateQuestion inserts a question.
// Route: POST /questions
func (h *HTTPHandler) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger := h.requestLogger(r)
		logger.Debug().Err(err).Msg("create question rejected")
		httperrors.RespondUnprocessable(w)
		return
	}

	created, err := h.svc.CreateQuestion(r.Context(), NewQuestion{
		Question:   *req.Question,
		Answer:     *req.Answer,
		Difficulty: int(*req.Difficulty),
		Category:   int(*req.Category),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"created": created.ID,
	})
}

// HandleSearchQuestions returns every question containing the search term.
// Route: POST /questions/search
func (h *HTTPHandler) HandleSearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.SearchTerm == nil {
		httperrors.RespondNotFound(w)
		return
	}

	result, err := h.svc.Search(r.Context(), *req.SearchTerm)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  len(result.Questions),
		"current_category": result.Categories,
	})
}

// HandleQuestionsByCategory lists all questions of one category.
// Route: GET /categories/{id}/questions
func (h *HTTPHandler) HandleQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	questions, err := h.svc.QuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"questions":        questions,
		"total_questions":  len(questions),
		"current_category": categoryID,
	})
}

// HandlePlayQuiz returns the next random unseen question, or null when none remain.
// Route: POST /quizzes
func (h *HTTPHandler) HandlePlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		logger := h.requestLogger(r)
		logger.Debug().Err(err).Msg("quiz request rejected")
		httperrors.RespondUnprocessable(w)
		return
	}

	previous := make([]int, 0, len(*req.PreviousQuestions))
	for _, id := range *req.PreviousQuestions {
		previous = append(previous, int(id))
	}

	q, err := h.svc.NextQuizQuestion(r.Context(), req.QuizCategory, previous)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":  true,
		"question": q,
	})
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.requestLogger(r)
	switch {
	case errors.Is(err, ErrBadRequest):
		logger.Debug().Err(err).Msg("bad request")
		httperrors.RespondBadRequest(w)
	case errors.Is(err, ErrNotFound):
		logger.Debug().Err(err).Msg("not found")
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnprocessable):
		logger.Warn().Err(err).Msg("unprocessable request")
		httperrors.RespondUnprocessable(w)
	default:
		logger.Error().Err(err).Msg("request failed")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandler) requestLogger(r *http.Request) zerolog.Logger {
	return logging.FromContextOr(r.Context(), h.logger)
}

// decodeJSON reads a single JSON object. Syntax errors, trailing data and empty
// bodies are ErrBadRequest; well-formed JSON with values of the wrong type is ErrValidation.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
			return errors.Join(ErrBadRequest, err)
		default:
			return errors.Join(ErrValidation, err)
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.Join(ErrBadRequest, errors.New("unexpected data after JSON body"))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
