// Package auth はセッションベース認証とロール認可を提供する。
package auth

import "strings"

// bearerPrefix はAuthorizationヘッダーのBearerスキームプレフィックス。
// 大文字小文字を区別し、スペースは1つだけ許容する。
const bearerPrefix = "Bearer "

// ExtractToken はCookie値とAuthorizationヘッダー値から候補トークンを
// 高々1つ決定する純関数。Cookie側が存在すればそちらを優先し、
// なければBearerスキームのヘッダーからトークンを取り出す。
// どちらも無い場合は空文字列を返す（エラーではなく、単に未認証）。
func ExtractToken(cookieToken, authorizationHeader string) string {
	if cookieToken != "" {
		return cookieToken
	}
	if strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return authorizationHeader[len(bearerPrefix):]
	}
	return ""
}
