package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/haven/internal/auth"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
)

// RentPaymentHandler は家賃支払い記録のHTTPハンドラー。
type RentPaymentHandler struct {
	repo repository.RentPaymentRepository
}

// NewRentPaymentHandler はRentPaymentHandlerを生成する。
func NewRentPaymentHandler(repo repository.RentPaymentRepository) *RentPaymentHandler {
	return &RentPaymentHandler{repo: repo}
}

// createRentPaymentRequest は支払い記録作成リクエストのボディ。
type createRentPaymentRequest struct {
	UserID      string  `json:"user_id"`
	PaymentDate string  `json:"payment_date"`
	Amount      float64 `json:"amount"`
	Notes       string  `json:"notes"`
}

// confirmRentPaymentRequest は支払い確認リクエストのボディ。
type confirmRentPaymentRequest struct {
	Confirmed   bool   `json:"confirmed"`
	ConfirmedBy string `json:"confirmed_by"`
}

// rentPaymentResponse は支払い記録のAPIレスポンス。
type rentPaymentResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	PaymentDate      time.Time  `json:"payment_date"`
	Amount           float64    `json:"amount"`
	Confirmed        bool       `json:"confirmed"`
	ConfirmedBy      string     `json:"confirmed_by"`
	ConfirmationDate *time.Time `json:"confirmation_date"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CreateRentPayment は支払い記録を作成する。
// POST /api/rent-payments （認証済みユーザー全員）
//
// 入居者が自己申告で登録するため、作成時は常に未確認（confirmed=false）。
// 確認はadmin / mentorがConfirmRentPaymentで行う。
func (h *RentPaymentHandler) CreateRentPayment(w http.ResponseWriter, r *http.Request) {
	var req createRentPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("user_idが空です"))
		return
	}

	paymentDate, apiErr := parseDate("payment_date", req.PaymentDate)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	payment := &model.RentPayment{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		PaymentDate: paymentDate,
		Amount:      req.Amount,
		Confirmed:   false,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), payment); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRentPaymentResponse(payment))
}

// ListRentPayments は支払い記録の一覧を支払い日降順で返す。
// GET /api/rent-payments
//
// role=userは常に自分の記録のみ。admin / mentorは全件、
// または?user_id=で特定ユーザーに絞り込める。
func (h *RentPaymentHandler) ListRentPayments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	scope, apiErr := auth.Authorize(user, auth.SelfOrRoleIn(model.RoleAdmin, model.RoleMentor), r.URL.Query().Get("user_id"))
	if apiErr != nil {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	payments, err := h.repo.ListByScope(r.Context(), scope)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]rentPaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, toRentPaymentResponse(payment))
	}

	writeJSON(w, http.StatusOK, responses)
}

// ConfirmRentPayment は支払いを確認済みに更新する。
// PATCH /api/rent-payments/{id}/confirm （admin / mentor のみ）
func (h *RentPaymentHandler) ConfirmRentPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")

	var req confirmRentPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.repo.Confirm(r.Context(), paymentID, req.Confirmed, req.ConfirmedBy, time.Now().UTC())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !updated {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("支払い記録", paymentID))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Payment confirmed"})
}

// toRentPaymentResponse はmodel.RentPaymentからAPIレスポンスに変換する。
func toRentPaymentResponse(payment *model.RentPayment) rentPaymentResponse {
	return rentPaymentResponse{
		ID:               payment.ID,
		UserID:           payment.UserID,
		PaymentDate:      payment.PaymentDate,
		Amount:           payment.Amount,
		Confirmed:        payment.Confirmed,
		ConfirmedBy:      payment.ConfirmedBy,
		ConfirmationDate: payment.ConfirmationDate,
		Notes:            payment.Notes,
		CreatedAt:        payment.CreatedAt,
	}
}
