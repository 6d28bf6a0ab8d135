package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// MockQueryService is a mock implementation of QueryService
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Append(sessionID, question, answer string) {
	m.Called(sessionID, question, answer)
}

func (m *MockHistoryStore) Recent(sessionID string) []domain.Exchange {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Exchange)
}

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Record(ctx context.Context, question, answer string, helpful bool) (*domain.Feedback, error) {
	args := m.Called(ctx, question, answer, helpful)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feedback), args.Error(1)
}

func newQueryFixture() (*QueryHandler, *MockQueryService, *MockHistoryStore, *MockFeedbackService) {
	querySvc := new(MockQueryService)
	history := new(MockHistoryStore)
	feedbackSvc := new(MockFeedbackService)
	return NewQueryHandler(querySvc, history, feedbackSvc), querySvc, history, feedbackSvc
}

func TestQueryHandler_Query(t *testing.T) {
	t.Run("answers a question and records the exchange", func(t *testing.T) {
		handler, querySvc, history, _ := newQueryFixture()

		querySvc.On("Answer", mock.Anything, "What is cladding?").Return(&domain.Answer{
			Text:    "Cladding deposits material onto a substrate.",
			Context: "[paper1.pdf] cladding overview",
			Sources: []string{"paper1.pdf"},
		}, nil)
		history.On("Append", "lab-42", "What is cladding?", "Cladding deposits material onto a substrate.").Return()

		body := `{"question": "What is cladding?", "session_id": "lab-42"}`
		req := httptest.NewRequest("POST", "/query", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Query(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data QueryResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Cladding deposits material onto a substrate.", resp.Data.Answer)
		assert.Equal(t, "[paper1.pdf] cladding overview", resp.Data.Context)
		assert.Equal(t, []string{"paper1.pdf"}, resp.Data.Sources)
		history.AssertExpectations(t)
	})

	t.Run("falls back to the default session when none is given", func(t *testing.T) {
		handler, querySvc, history, _ := newQueryFixture()

		querySvc.On("Answer", mock.Anything, "q").Return(&domain.Answer{Text: "a"}, nil)
		history.On("Append", "default", "q", "a").Return()

		req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"question": "q"}`))
		rec := httptest.NewRecorder()

		handler.Query(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		history.AssertExpectations(t)
	})

	t.Run("returns 400 for an empty question", func(t *testing.T) {
		handler, querySvc, history, _ := newQueryFixture()

		req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"question": ""}`))
		rec := httptest.NewRecorder()

		handler.Query(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		querySvc.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything)
		history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns 400 for a malformed body", func(t *testing.T) {
		handler, _, _, _ := newQueryFixture()

		req := httptest.NewRequest("POST", "/query", strings.NewReader(`{invalid`))
		rec := httptest.NewRecorder()

		handler.Query(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps generation failures to 502 without touching history", func(t *testing.T) {
		handler, querySvc, history, _ := newQueryFixture()

		querySvc.On("Answer", mock.Anything, "q").Return(nil, domain.ErrGenerationFailed)

		req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"question": "q"}`))
		rec := httptest.NewRecorder()

		handler.Query(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQueryHandler_History(t *testing.T) {
	t.Run("returns recent exchanges for a session", func(t *testing.T) {
		handler, _, history, _ := newQueryFixture()

		askedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		history.On("Recent", "lab-42").Return([]domain.Exchange{
			{Question: "q1", Answer: "a1", AskedAt: askedAt},
		})

		req := httptest.NewRequest("GET", "/history?session_id=lab-42", nil)
		rec := httptest.NewRecorder()

		handler.History(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data HistoryResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Items, 1)
		assert.Equal(t, "q1", resp.Data.Items[0].Question)
		assert.Equal(t, "2026-03-14T09:30:00Z", resp.Data.Items[0].AskedAt)
	})

	t.Run("returns an empty list for an unknown session", func(t *testing.T) {
		handler, _, history, _ := newQueryFixture()

		history.On("Recent", "default").Return(nil)

		req := httptest.NewRequest("GET", "/history", nil)
		rec := httptest.NewRecorder()

		handler.History(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data HistoryResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data.Items)
	})
}

func TestQueryHandler_Feedback(t *testing.T) {
	t.Run("records feedback and returns its id", func(t *testing.T) {
		handler, _, _, feedbackSvc := newQueryFixture()

		feedbackSvc.On("Record", mock.Anything, "q", "a", true).Return(&domain.Feedback{
			ID: "feedback-id-1",
		}, nil)

		body := `{"question": "q", "answer": "a", "helpful": true}`
		req := httptest.NewRequest("POST", "/feedback", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Feedback(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data FeedbackResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "feedback-id-1", resp.Data.ID)
	})

	t.Run("returns 400 when helpful is missing", func(t *testing.T) {
		handler, _, _, feedbackSvc := newQueryFixture()

		body := `{"question": "q", "answer": "a"}`
		req := httptest.NewRequest("POST", "/feedback", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Feedback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		feedbackSvc.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns 400 when the question is missing", func(t *testing.T) {
		handler, _, _, _ := newQueryFixture()

		body := `{"answer": "a", "helpful": false}`
		req := httptest.NewRequest("POST", "/feedback", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Feedback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
