// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザー入力のコンテンツをサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// デボーション本文は安全なタグのみを通過させ、メッセージ本文は
// プレーンテキストに落とす。
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService はコンテンツサニタイズ機能のインターフェースを定義する。
// デボーションとメッセージの保存前に使用される。
type ContentSanitizerService interface {
	// SanitizeRichText はデボーション本文などのリッチテキストをサニタイズする。
	// 許可タグ（p, br, ul, ol, li, blockquote, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeRichText(raw string) string

	// SanitizePlainText はメッセージ本文などのプレーンテキストをサニタイズする。
	// すべてのHTMLタグを除去する。
	SanitizePlainText(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
func NewContentSanitizer() *contentSanitizer {
	rich := bluemonday.NewPolicy()

	// デボーション本文で許可する整形タグ。
	// script, iframe, style等は許可リストに含めないことで自動的に除去される。
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される。
	rich.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote",
		"strong", "em",
	)

	return &contentSanitizer{
		richPolicy:  rich,
		plainPolicy: bluemonday.StrictPolicy(),
	}
}

// SanitizeRichText はリッチテキストをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeRichText(raw string) string {
	return s.richPolicy.Sanitize(raw)
}

// SanitizePlainText はすべてのHTMLタグを除去したテキストを返す。
func (s *contentSanitizer) SanitizePlainText(raw string) string {
	return s.plainPolicy.Sanitize(raw)
}

// compile-time interface check
var _ ContentSanitizerService = (*contentSanitizer)(nil)
