package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
)

// CalendarEventHandler はカレンダーイベントのHTTPハンドラー。
type CalendarEventHandler struct {
	repo repository.CalendarEventRepository
}

// NewCalendarEventHandler はCalendarEventHandlerを生成する。
func NewCalendarEventHandler(repo repository.CalendarEventRepository) *CalendarEventHandler {
	return &CalendarEventHandler{repo: repo}
}

// createCalendarEventRequest はイベント作成リクエストのボディ。
type createCalendarEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	EventType   string `json:"event_type"`
	Location    string `json:"location"`
}

// calendarEventResponse はイベントのAPIレスポンス。
type calendarEventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	EventType   string    `json:"event_type"`
	Location    string    `json:"location"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCalendarEvent はイベントを作成する。
// POST /api/calendar-events （admin / mentor のみ）
//
// 作成者は常にリクエストを行ったユーザー。
func (h *CalendarEventHandler) CreateCalendarEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createCalendarEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleは必須です"))
		return
	}

	eventDate, apiErr := parseDate("event_date", req.EventDate)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	event := &model.CalendarEvent{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		EventType:   req.EventType,
		Location:    req.Location,
		CreatedBy:   user.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), event); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCalendarEventResponse(event))
}

// ListCalendarEvents はイベントの一覧をイベント日昇順で返す。
// GET /api/calendar-events （認証済みユーザー全員）
//
// 他の一覧と異なり、直近の予定から順に表示するため昇順で返す。
func (h *CalendarEventHandler) ListCalendarEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]calendarEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, toCalendarEventResponse(event))
	}

	writeJSON(w, http.StatusOK, responses)
}

// toCalendarEventResponse はmodel.CalendarEventからAPIレスポンスに変換する。
func toCalendarEventResponse(event *model.CalendarEvent) calendarEventResponse {
	return calendarEventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		EventType:   event.EventType,
		Location:    event.Location,
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt,
	}
}
