package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fourier-ai/lmdrag/internal/api"
	"github.com/fourier-ai/lmdrag/internal/domain"
)

// defaultSessionID groups exchanges from clients that do not supply a
// session of their own.
const defaultSessionID = "default"

type QueryService interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

type HistoryStore interface {
	Append(sessionID, question, answer string)
	Recent(sessionID string) []domain.Exchange
}

type FeedbackService interface {
	Record(ctx context.Context, question, answer string, helpful bool) (*domain.Feedback, error)
}

type QueryHandler struct {
	querySvc    QueryService
	history     HistoryStore
	feedbackSvc FeedbackService
}

func NewQueryHandler(querySvc QueryService, history HistoryStore, feedbackSvc FeedbackService) *QueryHandler {
	return &QueryHandler{
		querySvc:    querySvc,
		history:     history,
		feedbackSvc: feedbackSvc,
	}
}

type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type QueryResponse struct {
	Answer  string   `json:"answer"`
	Context string   `json:"context"`
	Sources []string `json:"sources"`
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.querySvc.Answer(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}
	h.history.Append(sessionID, req.Question, answer.Text)

	api.Success(w, http.StatusOK, QueryResponse{
		Answer:  answer.Text,
		Context: answer.Context,
		Sources: answer.Sources,
	})
}

type ExchangeResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AskedAt  string `json:"asked_at"`
}

type HistoryResponse struct {
	Items []ExchangeResponse `json:"items"`
}

func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	exchanges := h.history.Recent(sessionID)
	items := make([]ExchangeResponse, len(exchanges))
	for i, ex := range exchanges {
		items[i] = ExchangeResponse{
			Question: ex.Question,
			Answer:   ex.Answer,
			AskedAt:  ex.AskedAt.Format(time.RFC3339),
		}
	}

	api.Success(w, http.StatusOK, HistoryResponse{Items: items})
}

type FeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Helpful  *bool  `json:"helpful"`
}

type FeedbackResponse struct {
	ID string `json:"id"`
}

func (h *QueryHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.Helpful == nil {
		api.Error(w, http.StatusBadRequest, "helpful is required")
		return
	}

	feedback, err := h.feedbackSvc.Record(r.Context(), req.Question, req.Answer, *req.Helpful)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, FeedbackResponse{ID: feedback.ID})
}
