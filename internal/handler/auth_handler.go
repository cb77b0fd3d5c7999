package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/haven/internal/auth"
	"github.com/hitoshi/haven/internal/middleware"
	"github.com/hitoshi/haven/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// EstablishSession は外部アイデンティティ交換を実行し、セッションを発行する。
	EstablishSession(ctx context.Context, externalSessionID string) (*model.Session, *model.User, error)
	// Logout は指定トークンのセッションを失効させる（冪等）。
	Logout(ctx context.Context, token string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieSecure bool          // Secure属性を付与するか（本番では必須）
	CookieDomain string        // Cookieのドメイン（空なら未指定）
	SessionTTL   time.Duration // Cookieの有効期間
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// createSessionResponse はセッション確立のAPIレスポンス。
type createSessionResponse struct {
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession はワンタイムの外部セッションIDからセッションを確立する。
// POST /api/auth/session
//
// フロントエンドはOAuthコールバック後に受け取ったセッションIDを
// X-Session-IDヘッダーで送信する。交換に成功するとHTTP Only Cookieに
// セッショントークンを設定し、ボディでも同じトークンを返す
// （Cookieが使えないクライアントはAuthorization: Bearerで送り返す）。
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	externalSessionID := r.Header.Get("X-Session-ID")
	if externalSessionID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("X-Session-IDヘッダーが必要です"))
		return
	}

	session, user, err := h.service.EstablishSession(r.Context(), externalSessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// SPAが別オリジンから送信するため SameSite=None を使用する。
	// SameSite=None はSecureとの併用がブラウザ要件。
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   int(h.config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, createSessionResponse{
		SessionToken: session.Token,
		UserID:       user.ID,
	})
}

// Me は現在のリクエストに紐づくユーザー情報を返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Logout はセッションを失効させ、Cookieを削除する。
// POST /api/auth/logout
//
// トークンが無い・既に失効済みの場合も成功として扱う（冪等）。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var cookieToken string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		cookieToken = cookie.Value
	}
	token := auth.ExtractToken(cookieToken, r.Header.Get("Authorization"))

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, err)
		return
	}

	// Cookieを削除
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
