package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/haven/internal/auth"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
)

// MeetingHandler はミーティング出席記録のHTTPハンドラー。
type MeetingHandler struct {
	repo repository.MeetingRepository
}

// NewMeetingHandler はMeetingHandlerを生成する。
func NewMeetingHandler(repo repository.MeetingRepository) *MeetingHandler {
	return &MeetingHandler{repo: repo}
}

// createMeetingRequest は出席記録作成リクエストのボディ。
type createMeetingRequest struct {
	UserID      string `json:"user_id"`
	MeetingDate string `json:"meeting_date"`
	MeetingType string `json:"meeting_type"`
	Attended    bool   `json:"attended"`
	Notes       string `json:"notes"`
	RecordedBy  string `json:"recorded_by"`
}

// meetingResponse は出席記録のAPIレスポンス。
type meetingResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	MeetingDate time.Time `json:"meeting_date"`
	MeetingType string    `json:"meeting_type"`
	Attended    bool      `json:"attended"`
	Notes       string    `json:"notes"`
	RecordedBy  string    `json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateMeeting は出席記録を作成する。
// POST /api/meetings （admin / mentor のみ）
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("user_idが空です"))
		return
	}

	meetingDate, apiErr := parseDate("meeting_date", req.MeetingDate)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	meeting := &model.Meeting{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		MeetingDate: meetingDate,
		MeetingType: req.MeetingType,
		Attended:    req.Attended,
		Notes:       req.Notes,
		RecordedBy:  req.RecordedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), meeting); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMeetingResponse(meeting))
}

// ListMeetings は出席記録の一覧をミーティング日降順で返す。
// GET /api/meetings
//
// role=userは常に自分の記録のみ。admin / mentorは全件、
// または?user_id=で特定ユーザーに絞り込める。
func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	scope, apiErr := auth.Authorize(user, auth.SelfOrRoleIn(model.RoleAdmin, model.RoleMentor), r.URL.Query().Get("user_id"))
	if apiErr != nil {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	meetings, err := h.repo.ListByScope(r.Context(), scope)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]meetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		responses = append(responses, toMeetingResponse(meeting))
	}

	writeJSON(w, http.StatusOK, responses)
}

// toMeetingResponse はmodel.MeetingからAPIレスポンスに変換する。
func toMeetingResponse(meeting *model.Meeting) meetingResponse {
	return meetingResponse{
		ID:          meeting.ID,
		UserID:      meeting.UserID,
		MeetingDate: meeting.MeetingDate,
		MeetingType: meeting.MeetingType,
		Attended:    meeting.Attended,
		Notes:       meeting.Notes,
		RecordedBy:  meeting.RecordedBy,
		CreatedAt:   meeting.CreatedAt,
	}
}
