package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ExchangeResult は外部アイデンティティオラクルから取得した検証済み属性を表す。
// SessionTokenはオラクルが発行する長命の不透明トークンで、ローカルでは
// 生成も再検証もしない。
type ExchangeResult struct {
	Email        string
	Name         string
	Picture      string
	SessionToken string
}

// IdentityExchanger は外部アイデンティティ交換のインターフェース。
// ワンタイムの外部セッションIDを検証済み属性に交換する。
// 交換は単一のアトミックな外部呼び出しであり、リトライしない。
type IdentityExchanger interface {
	Exchange(ctx context.Context, externalSessionID string) (*ExchangeResult, error)
}

// HTTPIdentityExchanger はHTTP経由でオラクルと通信するIdentityExchangerの実装。
type HTTPIdentityExchanger struct {
	exchangeURL string
	client      *http.Client
}

// NewHTTPIdentityExchanger はHTTPIdentityExchangerを生成する。
// clientにはタイムアウト付きのHTTPクライアントを渡す。nilの場合は
// http.DefaultClientを使用する。
func NewHTTPIdentityExchanger(exchangeURL string, client *http.Client) *HTTPIdentityExchanger {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPIdentityExchanger{
		exchangeURL: exchangeURL,
		client:      client,
	}
}

// exchangeResponse はオラクルのレスポンスボディ。
type exchangeResponse struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// Exchange はワンタイムの外部セッションIDをX-Session-IDヘッダーで送信し、
// 検証済みのユーザー属性とセッショントークンを取得する。
func (e *HTTPIdentityExchanger) Exchange(ctx context.Context, externalSessionID string) (*ExchangeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.exchangeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create exchange request: %w", err)
	}
	req.Header.Set("X-Session-ID", externalSessionID)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read exchange response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed exchangeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse exchange response: %w", err)
	}

	if parsed.Email == "" {
		return nil, fmt.Errorf("empty email in exchange response")
	}
	if parsed.SessionToken == "" {
		return nil, fmt.Errorf("empty session token in exchange response")
	}

	return &ExchangeResult{
		Email:        parsed.Email,
		Name:         parsed.Name,
		Picture:      parsed.Picture,
		SessionToken: parsed.SessionToken,
	}, nil
}

// compile-time interface check
var _ IdentityExchanger = (*HTTPIdentityExchanger)(nil)
