package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
	"github.com/hitoshi/haven/internal/security"
)

// ReadingMaterialHandler は読書資料のHTTPハンドラー。
type ReadingMaterialHandler struct {
	repo  repository.ReadingMaterialRepository
	guard security.LinkGuardService
}

// NewReadingMaterialHandler はReadingMaterialHandlerを生成する。
func NewReadingMaterialHandler(repo repository.ReadingMaterialRepository, guard security.LinkGuardService) *ReadingMaterialHandler {
	return &ReadingMaterialHandler{
		repo:  repo,
		guard: guard,
	}
}

// createReadingMaterialRequest は読書資料作成リクエストのボディ。
type createReadingMaterialRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Link        string `json:"link"`
}

// readingMaterialResponse は読書資料のAPIレスポンス。
type readingMaterialResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Link        string    `json:"link"`
	AddedBy     string    `json:"added_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateReadingMaterial は読書資料を作成する。
// POST /api/reading-materials （admin / mentor のみ）
//
// 登録者は常にリクエストを行ったユーザー。
// リンクは任意だが、指定された場合は内部ネットワークを指さないことを検証する。
func (h *ReadingMaterialHandler) CreateReadingMaterial(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createReadingMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleは必須です"))
		return
	}

	if req.Link != "" {
		if err := h.guard.ValidateURL(req.Link); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidLinkError(err.Error()))
			return
		}
	}

	material := &model.ReadingMaterial{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Category:    req.Category,
		Link:        req.Link,
		AddedBy:     user.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), material); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReadingMaterialResponse(material))
}

// ListReadingMaterials は読書資料の一覧を作成日時降順で返す。
// GET /api/reading-materials （認証済みユーザー全員）
func (h *ReadingMaterialHandler) ListReadingMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]readingMaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, toReadingMaterialResponse(material))
	}

	writeJSON(w, http.StatusOK, responses)
}

// toReadingMaterialResponse はmodel.ReadingMaterialからAPIレスポンスに変換する。
func toReadingMaterialResponse(material *model.ReadingMaterial) readingMaterialResponse {
	return readingMaterialResponse{
		ID:          material.ID,
		Title:       material.Title,
		Author:      material.Author,
		Description: material.Description,
		Category:    material.Category,
		Link:        material.Link,
		AddedBy:     material.AddedBy,
		CreatedAt:   material.CreatedAt,
	}
}
