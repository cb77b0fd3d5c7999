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

// DevotionHandler はデボーションのHTTPハンドラー。
type DevotionHandler struct {
	repo      repository.DevotionRepository
	sanitizer security.ContentSanitizerService
}

// NewDevotionHandler はDevotionHandlerを生成する。
func NewDevotionHandler(repo repository.DevotionRepository, sanitizer security.ContentSanitizerService) *DevotionHandler {
	return &DevotionHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// createDevotionRequest はデボーション作成リクエストのボディ。
type createDevotionRequest struct {
	Title              string `json:"title"`
	Content            string `json:"content"`
	ScriptureReference string `json:"scripture_reference"`
}

// devotionResponse はデボーションのAPIレスポンス。
type devotionResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	ScriptureReference string    `json:"scripture_reference"`
	AuthorID           string    `json:"author_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateDevotion はデボーションを作成する。
// POST /api/devotions （adminのみ）
//
// 著者は常にリクエストを行ったadminユーザー。
// 本文はHTMLとして保存前にサニタイズされる。
func (h *DevotionHandler) CreateDevotion(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createDevotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Title == "" || req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleとcontentは必須です"))
		return
	}

	devotion := &model.Devotion{
		ID:                 uuid.New().String(),
		Title:              req.Title,
		Content:            h.sanitizer.SanitizeRichText(req.Content),
		ScriptureReference: req.ScriptureReference,
		AuthorID:           user.ID,
		CreatedAt:          time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), devotion); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDevotionResponse(devotion))
}

// ListDevotions はデボーションの一覧を作成日時降順で返す。
// GET /api/devotions （認証済みユーザー全員）
func (h *DevotionHandler) ListDevotions(w http.ResponseWriter, r *http.Request) {
	devotions, err := h.repo.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]devotionResponse, 0, len(devotions))
	for _, devotion := range devotions {
		responses = append(responses, toDevotionResponse(devotion))
	}

	writeJSON(w, http.StatusOK, responses)
}

// toDevotionResponse はmodel.DevotionからAPIレスポンスに変換する。
func toDevotionResponse(devotion *model.Devotion) devotionResponse {
	return devotionResponse{
		ID:                 devotion.ID,
		Title:              devotion.Title,
		Content:            devotion.Content,
		ScriptureReference: devotion.ScriptureReference,
		AuthorID:           devotion.AuthorID,
		CreatedAt:          devotion.CreatedAt,
	}
}
