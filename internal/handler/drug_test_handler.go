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

// DrugTestHandler は薬物検査記録のHTTPハンドラー。
type DrugTestHandler struct {
	repo repository.DrugTestRepository
}

// NewDrugTestHandler はDrugTestHandlerを生成する。
func NewDrugTestHandler(repo repository.DrugTestRepository) *DrugTestHandler {
	return &DrugTestHandler{repo: repo}
}

// createDrugTestRequest は検査記録作成リクエストのボディ。
type createDrugTestRequest struct {
	UserID         string `json:"user_id"`
	TestDate       string `json:"test_date"`
	TestType       string `json:"test_type"`
	Result         string `json:"result"`
	AdministeredBy string `json:"administered_by"`
	Notes          string `json:"notes"`
}

// drugTestResponse は検査記録のAPIレスポンス。
type drugTestResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	TestDate       time.Time `json:"test_date"`
	TestType       string    `json:"test_type"`
	Result         string    `json:"result"`
	AdministeredBy string    `json:"administered_by"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateDrugTest は検査記録を作成する。
// POST /api/drug-tests （admin / mentor のみ）
func (h *DrugTestHandler) CreateDrugTest(w http.ResponseWriter, r *http.Request) {
	var req createDrugTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("user_idが空です"))
		return
	}

	testDate, apiErr := parseDate("test_date", req.TestDate)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	test := &model.DrugTest{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		TestDate:       testDate,
		TestType:       req.TestType,
		Result:         req.Result,
		AdministeredBy: req.AdministeredBy,
		Notes:          req.Notes,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), test); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDrugTestResponse(test))
}

// ListDrugTests は検査記録の一覧を検査日降順で返す。
// GET /api/drug-tests
//
// role=userは常に自分の記録のみ。admin / mentorは全件、
// または?user_id=で特定ユーザーに絞り込める。
func (h *DrugTestHandler) ListDrugTests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	scope, apiErr := auth.Authorize(user, auth.SelfOrRoleIn(model.RoleAdmin, model.RoleMentor), r.URL.Query().Get("user_id"))
	if apiErr != nil {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	tests, err := h.repo.ListByScope(r.Context(), scope)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]drugTestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, toDrugTestResponse(test))
	}

	writeJSON(w, http.StatusOK, responses)
}

// toDrugTestResponse はmodel.DrugTestからAPIレスポンスに変換する。
func toDrugTestResponse(test *model.DrugTest) drugTestResponse {
	return drugTestResponse{
		ID:             test.ID,
		UserID:         test.UserID,
		TestDate:       test.TestDate,
		TestType:       test.TestType,
		Result:         test.Result,
		AdministeredBy: test.AdministeredBy,
		Notes:          test.Notes,
		CreatedAt:      test.CreatedAt,
	}
}
