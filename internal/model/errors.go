// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, resource, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeExchangeFailed  = "EXCHANGE_FAILED"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidDate     = "INVALID_DATE"
	ErrCodeInvalidRole     = "INVALID_ROLE"
	ErrCodeInvalidLink     = "INVALID_LINK"
	ErrCodeNotFound        = "NOT_FOUND"
)

// NewUnauthenticatedError は未認証エラーを生成する。
// 資格情報の欠落・無効・期限切れはすべてこのエラーに集約され、HTTP 401に対応する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証されていません。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError はロール不足エラーを生成する。
// 認証済みだが権限が足りない場合に使用し、HTTP 403に対応する。
// 未認証（401）とは明確に区別される。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "必要なロールを持つアカウントでログインしてください。",
	}
}

// NewExchangeFailedError は外部アイデンティティ交換の失敗エラーを生成する。
// オラクル到達不能・セッションID無効のいずれもログイン試行の失敗として扱う。
func NewExchangeFailedError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeExchangeFailed,
		Message:  fmt.Sprintf("セッションの検証に失敗しました: %s", detail),
		Category: "auth",
		Action:   "ログインをやり直してください。",
	}
}

// NewInvalidRequestError はリクエスト解析失敗エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewInvalidDateError は日付パース失敗エラーを生成する。
// 日付フィールドはRFC 3339形式で指定する必要がある。
func NewInvalidDateError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付フィールドを解釈できません: %s", field),
		Category: "validation",
		Action:   "日付はRFC 3339形式（例: 2026-01-02T15:04:05Z）で指定してください。",
	}
}

// NewInvalidRoleError は未定義ロールエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "ロールには user、mentor、admin のいずれかを指定してください。",
	}
}

// NewInvalidLinkError はリンク検証失敗エラーを生成する。
func NewInvalidLinkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLink,
		Message:  fmt.Sprintf("無効なリンクです: %s", reason),
		Category: "validation",
		Action:   "公開されているWebサイトのURL（http:// または https://）を指定してください。",
	}
}

// NewNotFoundError は対象レコード未検出エラーを生成する。
// update-by-id系の操作で対象が存在しない場合に使用する。
func NewNotFoundError(kind, id string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("指定された%sが見つかりません: %s", kind, id),
		Category: "resource",
		Action:   "IDを確認してください。",
	}
}
