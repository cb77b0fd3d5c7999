package security

import "testing"

func TestValidateURL_AllowsPublicURLs(t *testing.T) {
	guard := NewLinkGuard()

	cases := []string{
		"https://example.com/book",
		"http://example.org/articles/1",
		"https://8.8.8.8/resource",
	}

	for _, url := range cases {
		if err := guard.ValidateURL(url); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", url, err)
		}
	}
}

func TestValidateURL_RejectsDisallowedSchemes(t *testing.T) {
	guard := NewLinkGuard()

	cases := []string{
		"ftp://example.com/file",
		"javascript:alert(1)",
		"file:///etc/passwd",
	}

	for _, url := range cases {
		if err := guard.ValidateURL(url); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", url)
		}
	}
}

func TestValidateURL_RejectsPrivateAndMetadataIPs(t *testing.T) {
	guard := NewLinkGuard()

	cases := []string{
		"http://10.0.0.5/admin",
		"http://172.16.1.1/",
		"http://192.168.1.1/router",
		"http://127.0.0.1:8080/internal",
		// クラウドメタデータIP
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/",
	}

	for _, url := range cases {
		if err := guard.ValidateURL(url); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", url)
		}
	}
}

func TestValidateURL_RejectsLocalhost(t *testing.T) {
	guard := NewLinkGuard()

	if err := guard.ValidateURL("http://localhost:5432/db"); err == nil {
		t.Error("localhost should be rejected")
	}
	if err := guard.ValidateURL("http://LOCALHOST/"); err == nil {
		t.Error("localhost should be rejected case-insensitively")
	}
}

func TestValidateURL_RejectsEmptyAndMalformed(t *testing.T) {
	guard := NewLinkGuard()

	cases := []string{
		"",
		"not a url",
		"https://",
	}

	for _, url := range cases {
		if err := guard.ValidateURL(url); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", url)
		}
	}
}

func TestNewSafeClient_ReturnsConfiguredClient(t *testing.T) {
	guard := NewLinkGuard()

	client := guard.NewSafeClient(0)
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}
