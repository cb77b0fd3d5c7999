package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするリポジトリインターフェース。
type UserServiceInterface interface {
	// ListAll は全ユーザーを作成日時降順で返す。
	ListAll(ctx context.Context) ([]*model.User, error)
	// UpdateRole は指定ユーザーのロールを更新する。対象が存在しない場合はfalseを返す。
	UpdateRole(ctx context.Context, id string, role model.Role) (bool, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// updateRoleRequest はロール変更リクエストのボディ。
type updateRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers は全ユーザーの一覧を返す。
// GET /api/users （admin / mentor のみ）
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, responses)
}

// UpdateUserRole は指定ユーザーのロールを変更する。
// PATCH /api/users/{id}/role （adminのみ）
//
// 自分自身のロール変更は拒否する（最後のadminが自身を降格して
// ロール変更経路を失う事故を防ぐ）。
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	targetID := chi.URLParam(r, "id")

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRoleError(req.Role))
		return
	}

	if targetID == actor.ID {
		writeAPIErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), targetID, role)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !updated {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("ユーザー", targetID))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Role updated"})
}
