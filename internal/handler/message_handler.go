package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
	"github.com/hitoshi/haven/internal/security"
)

// MessageHandler は内部メッセージのHTTPハンドラー。
type MessageHandler struct {
	repo      repository.MessageRepository
	sanitizer security.ContentSanitizerService
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(repo repository.MessageRepository, sanitizer security.ContentSanitizerService) *MessageHandler {
	return &MessageHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// createMessageRequest はメッセージ作成リクエストのボディ。
// recipient_idを省略またはnullにするとブロードキャストになる。
type createMessageRequest struct {
	RecipientID *string `json:"recipient_id"`
	Content     string  `json:"content"`
}

// messageItemResponse はメッセージのAPIレスポンス。
// ブロードキャストの場合はrecipient_idがnullになる。
type messageItemResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID *string   `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateMessage はメッセージを送信する。
// POST /api/messages （認証済みユーザー全員）
//
// 送信者は常にリクエストを行ったユーザー。宛先はこの時点で
// 直接送信かブロードキャストかに一度だけ解決され、以後変化しない。
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("contentは必須です"))
		return
	}

	recipient := model.BroadcastRecipient()
	if req.RecipientID != nil && *req.RecipientID != "" {
		recipient = model.DirectRecipient(*req.RecipientID)
	}

	message := &model.Message{
		ID:        uuid.New().String(),
		SenderID:  user.ID,
		Recipient: recipient,
		Content:   h.sanitizer.SanitizePlainText(req.Content),
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.repo.Create(r.Context(), message); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(message))
}

// ListMessages は自分が関与するメッセージの一覧を作成日時降順で返す。
// GET /api/messages （認証済みユーザー全員）
//
// 自分が送信者・直接宛先・ブロードキャスト宛先のいずれかであるものを返す。
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	messages, err := h.repo.ListVisibleTo(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]messageItemResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, toMessageResponse(message))
	}

	writeJSON(w, http.StatusOK, responses)
}

// MarkMessageRead は指定メッセージを既読にする。
// PATCH /api/messages/{id}/read （認証済みユーザー全員）
func (h *MessageHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "id")

	updated, err := h.repo.MarkRead(r.Context(), messageID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !updated {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("メッセージ", messageID))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Marked as read"})
}

// toMessageResponse はmodel.MessageからAPIレスポンスに変換する。
func toMessageResponse(message *model.Message) messageItemResponse {
	var recipientID *string
	if message.Recipient.Kind == model.RecipientDirect {
		id := message.Recipient.UserID
		recipientID = &id
	}
	return messageItemResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: recipientID,
		Content:     message.Content,
		Read:        message.Read,
		CreatedAt:   message.CreatedAt,
	}
}
