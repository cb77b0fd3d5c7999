// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/haven/internal/auth"
	"github.com/hitoshi/haven/internal/model"
)

// SessionCookieName はセッショントークンを格納するCookieの名前。
const SessionCookieName = "session_token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに解決済みユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// UserResolver は候補トークンからユーザーを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*model.User, error)
}

// NewIdentityMiddleware はCookieまたはAuthorizationヘッダーから
// セッショントークンを抽出し、ユーザーに解決するミドルウェアを返す。
// 解決できた場合のみユーザーをリクエストコンテキストに注入する。
// このミドルウェア自体はリクエストを拒否しない。拒否の判断は
// RequireAuthenticated / RequireRole が行う（公開エンドポイントと
// 保護エンドポイントで同じ解決処理を共有するため）。
func NewIdentityMiddleware(resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookie優先、次にAuthorization: Bearerからトークンを抽出
			var cookieToken string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				cookieToken = cookie.Value
			}
			token := auth.ExtractToken(cookieToken, r.Header.Get("Authorization"))

			// 2. トークンをユーザーに解決。ストレージ障害のみerrorになる
			user, err := resolver.ResolveUser(r.Context(), token)
			if err != nil {
				slog.Error("failed to resolve user",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			// 3. 解決済みユーザーをコンテキストに注入（未認証ならそのまま通す）
			if user != nil {
				r = r.WithContext(ContextWithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated は認証済みユーザーのみを通過させるミドルウェアを返す。
// 未認証リクエストには401 Unauthorizedを返す。
func RequireAuthenticated() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserFromContext(r.Context()); !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole は指定ロールのいずれかを持つ認証済みユーザーのみを
// 通過させるミドルウェアを返す。
// 未認証は401、認証済みだがロール不足は403を返す（明確に区別する）。
func RequireRole(roles ...model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}
			if !user.Role.In(roles...) {
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext はリクエストコンテキストから解決済みユーザーを取得する。
// IdentityMiddlewareを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// ContextWithUser はコンテキストにユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
