package trivia

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) ListQuestions(ctx context.Context) ([]Question, error) {
	args := m.Called(ctx)
	qs, _ := args.Get(0).([]Question)
	return qs, args.Error(1)
}

func (m *mockQuestionStore) InsertQuestion(ctx context.Context, q NewQuestion) (Question, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(Question), args.Error(1)
}

func (m *mockQuestionStore) DeleteQuestion(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockQuestionStore) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	args := m.Called(ctx, term)
	qs, _ := args.Get(0).([]Question)
	return qs, args.Error(1)
}

func (m *mockQuestionStore) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error) {
	args := m.Called(ctx, categoryID)
	qs, _ := args.Get(0).([]Question)
	return qs, args.Error(1)
}

func (m *mockQuestionStore) ListQuizCandidates(ctx context.Context, categoryID *int, exclude []int) ([]Question, error) {
	args := m.Called(ctx, categoryID, exclude)
	qs, _ := args.Get(0).([]Question)
	return qs, args.Error(1)
}

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) ListCategories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]Category)
	return cs, args.Error(1)
}

type recordingPublisher struct {
	created []Question
	deleted []int
}

func (p *recordingPublisher) QuestionCreated(_ context.Context, q Question) { p.created = append(p.created, q) }
func (p *recordingPublisher) QuestionDeleted(_ context.Context, id int)     { p.deleted = append(p.deleted, id) }

func newTestService(qs *mockQuestionStore, cs *mockCategoryStore, pub EventPublisher) *Service {
	return NewService(qs, cs, ServiceOptions{
		Selector:  NewSelector(fixedSource(0)),
		Publisher: pub,
	}, zerolog.New(io.Discard))
}

func questions(n int) []Question {
	out := make([]Question, n)
	for i := range out {
		out[i] = Question{ID: i + 1, Question: "q", Answer: "a", Difficulty: 1, Category: 1}
	}
	return out
}

func TestService_CategoriesEmptyIsNotFound(t *testing.T) {
	cs := new(mockCategoryStore)
	cs.On("ListCategories", mock.Anything).Return([]Category{}, nil)

	_, err := newTestService(new(mockQuestionStore), cs, nil).Categories(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CategoriesStoreFailure(t *testing.T) {
	cs := new(mockCategoryStore)
	cs.On("ListCategories", mock.Anything).Return(nil, errors.New("conn reset"))

	_, err := newTestService(new(mockQuestionStore), cs, nil).Categories(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestService_QuestionsPage(t *testing.T) {
	qs := new(mockQuestionStore)
	cs := new(mockCategoryStore)
	qs.On("ListQuestions", mock.Anything).Return(questions(15), nil)
	cs.On("ListCategories", mock.Anything).Return([]Category{{ID: 1, Type: "Science"}}, nil)

	page, err := newTestService(qs, cs, nil).QuestionsPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Questions, 5)
	assert.Equal(t, 11, page.Questions[0].ID)
	assert.Equal(t, 15, page.Total)
	assert.Len(t, page.Categories, 1)
}

func TestService_DeleteQuestion(t *testing.T) {
	qs := new(mockQuestionStore)
	pub := &recordingPublisher{}
	qs.On("DeleteQuestion", mock.Anything, 3).Return(nil)
	qs.On("ListQuestions", mock.Anything).Return(questions(2), nil)

	result, err := newTestService(qs, new(mockCategoryStore), pub).DeleteQuestion(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Deleted)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Questions, 2)
	assert.Equal(t, []int{3}, pub.deleted)
}

func TestService_DeleteQuestionErrors(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("DeleteQuestion", mock.Anything, 404).Return(ErrNotFound)
	qs.On("DeleteQuestion", mock.Anything, 500).Return(errors.New("deadlock"))
	svc := newTestService(qs, new(mockCategoryStore), nil)

	_, err := svc.DeleteQuestion(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.DeleteQuestion(context.Background(), 500, 1)
	assert.ErrorIs(t, err, ErrUnprocessable)
	qs.AssertNotCalled(t, "ListQuestions", mock.Anything)
}

func TestService_CreateQuestion(t *testing.T) {
	qs := new(mockQuestionStore)
	pub := &recordingPublisher{}
	nq := NewQuestion{Question: "Q", Answer: "A", Difficulty: 2, Category: 3}
	qs.On("InsertQuestion", mock.Anything, nq).Return(Question{ID: 7, Question: "Q", Answer: "A", Difficulty: 2, Category: 3}, nil)

	created, err := newTestService(qs, new(mockCategoryStore), pub).CreateQuestion(context.Background(), nq)
	require.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	require.Len(t, pub.created, 1)
	assert.Equal(t, 7, pub.created[0].ID)
}

func TestService_CreateQuestionFailureIsUnprocessable(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("InsertQuestion", mock.Anything, mock.Anything).Return(Question{}, errors.New("constraint"))
	pub := &recordingPublisher{}

	_, err := newTestService(qs, new(mockCategoryStore), pub).CreateQuestion(context.Background(), NewQuestion{})
	assert.ErrorIs(t, err, ErrUnprocessable)
	assert.Empty(t, pub.created)
}

func TestService_SearchCollectsCategoriesInOrder(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("SearchQuestions", mock.Anything, "title").Return([]Question{
		{ID: 1, Category: 4}, {ID: 2, Category: 2}, {ID: 3, Category: 4},
	}, nil)

	result, err := newTestService(qs, new(mockCategoryStore), nil).Search(context.Background(), "title")
	require.NoError(t, err)
	assert.Len(t, result.Questions, 3)
	assert.Equal(t, []int{4, 2}, result.Categories)
}

func TestService_SearchNoMatchesIsEmptySuccess(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("SearchQuestions", mock.Anything, "zzz-no-match").Return(nil, nil)

	result, err := newTestService(qs, new(mockCategoryStore), nil).Search(context.Background(), "zzz-no-match")
	require.NoError(t, err)
	assert.NotNil(t, result.Questions)
	assert.Empty(t, result.Questions)
	assert.Empty(t, result.Categories)
}

func TestService_SearchBlankTerm(t *testing.T) {
	_, err := newTestService(new(mockQuestionStore), new(mockCategoryStore), nil).Search(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_QuestionsByCategory(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("ListQuestionsByCategory", mock.Anything, 1).Return(questions(2), nil)
	qs.On("ListQuestionsByCategory", mock.Anything, 9).Return([]Question{}, nil)
	svc := newTestService(qs, new(mockCategoryStore), nil)

	got, err := svc.QuestionsByCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.QuestionsByCategory(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_NextQuizQuestion(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("ListQuizCandidates", mock.Anything, (*int)(nil), []int{1}).Return([]Question{{ID: 2}}, nil)
	svc := newTestService(qs, new(mockCategoryStore), nil)

	q, err := svc.NextQuizQuestion(context.Background(), &QuizCategory{Type: AllCategoriesType}, []int{1})
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 2, q.ID)
}

func TestService_NextQuizQuestionExhausted(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("ListQuizCandidates", mock.Anything, (*int)(nil), []int{1, 2}).Return([]Question{}, nil)

	q, err := newTestService(qs, new(mockCategoryStore), nil).
		NextQuizQuestion(context.Background(), &QuizCategory{ID: 0}, []int{1, 2})
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestService_NextQuizQuestionRequiresBothInputs(t *testing.T) {
	svc := newTestService(new(mockQuestionStore), new(mockCategoryStore), nil)

	_, err := svc.NextQuizQuestion(context.Background(), nil, []int{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.NextQuizQuestion(context.Background(), &QuizCategory{}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_NextQuizQuestionStoreFailure(t *testing.T) {
	qs := new(mockQuestionStore)
	qs.On("ListQuizCandidates", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := newTestService(qs, new(mockCategoryStore), nil).
		NextQuizQuestion(context.Background(), &QuizCategory{ID: 2}, []int{})
	assert.ErrorIs(t, err, ErrUnprocessable)
}
