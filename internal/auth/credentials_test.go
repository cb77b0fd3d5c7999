package auth

import "testing"

func TestExtractToken_CookieOnly(t *testing.T) {
	token := ExtractToken("cookie-token", "")
	if token != "cookie-token" {
		t.Errorf("token = %q, want %q", token, "cookie-token")
	}
}

func TestExtractToken_CookieWinsOverHeader(t *testing.T) {
	// 両方が存在する場合はCookieを優先する
	token := ExtractToken("cookie-token", "Bearer header-token")
	if token != "cookie-token" {
		t.Errorf("token = %q, want %q", token, "cookie-token")
	}
}

func TestExtractToken_BearerHeader(t *testing.T) {
	token := ExtractToken("", "Bearer header-token")
	if token != "header-token" {
		t.Errorf("token = %q, want %q", token, "header-token")
	}
}

func TestExtractToken_BearerPrefixIsCaseSensitive(t *testing.T) {
	token := ExtractToken("", "bearer header-token")
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestExtractToken_MalformedHeader(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"プレフィックスなし", "header-token"},
		{"Basicスキーム", "Basic dXNlcjpwYXNz"},
		{"Bearerのみ", "Bearer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if token := ExtractToken("", tc.header); token != "" {
				t.Errorf("token = %q, want empty", token)
			}
		})
	}
}

func TestExtractToken_BothEmpty(t *testing.T) {
	if token := ExtractToken("", ""); token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}
