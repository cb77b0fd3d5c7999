package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/haven/internal/model"
)

// --- モック定義 ---

type mockReadingMaterialRepo struct {
	createFn func(ctx context.Context, material *model.ReadingMaterial) error

	listResult []*model.ReadingMaterial
}

func (m *mockReadingMaterialRepo) Create(ctx context.Context, material *model.ReadingMaterial) error {
	if m.createFn != nil {
		return m.createFn(ctx, material)
	}
	return nil
}

func (m *mockReadingMaterialRepo) ListAll(ctx context.Context) ([]*model.ReadingMaterial, error) {
	return m.listResult, nil
}

type mockLinkGuard struct {
	validateFn func(rawURL string) error

	validated []string
}

func (m *mockLinkGuard) NewSafeClient(timeout time.Duration) *http.Client { return http.DefaultClient }

func (m *mockLinkGuard) ValidateURL(rawURL string) error {
	m.validated = append(m.validated, rawURL)
	if m.validateFn != nil {
		return m.validateFn(rawURL)
	}
	return nil
}

// --- テスト ---

func TestCreateReadingMaterial_Success_SetsAddedByFromRequester(t *testing.T) {
	var created *model.ReadingMaterial
	repo := &mockReadingMaterialRepo{
		createFn: func(ctx context.Context, material *model.ReadingMaterial) error {
			created = material
			return nil
		},
	}
	guard := &mockLinkGuard{}
	h := NewReadingMaterialHandler(repo, guard)

	body := `{"title":"十二のステップ","author":"AA","link":"https://example.com/book"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reading-materials", strings.NewReader(body))
	req = withUser(req, &model.User{ID: "mentor-1", Role: model.RoleMentor})
	w := httptest.NewRecorder()

	h.CreateReadingMaterial(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if created.AddedBy != "mentor-1" {
		t.Errorf("added_by = %q, want mentor-1", created.AddedBy)
	}
	if len(guard.validated) != 1 || guard.validated[0] != "https://example.com/book" {
		t.Errorf("validated = %v", guard.validated)
	}
}

func TestCreateReadingMaterial_BlockedLink_Returns400(t *testing.T) {
	repo := &mockReadingMaterialRepo{
		createFn: func(ctx context.Context, material *model.ReadingMaterial) error {
			t.Fatal("Create should not be called for a blocked link")
			return nil
		},
	}
	guard := &mockLinkGuard{
		validateFn: func(rawURL string) error {
			return errors.New("URL resolves to a blocked network")
		},
	}
	h := NewReadingMaterialHandler(repo, guard)

	body := `{"title":"x","link":"http://169.254.169.254/latest/meta-data"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reading-materials", strings.NewReader(body))
	req = withUser(req, &model.User{ID: "admin-1", Role: model.RoleAdmin})
	w := httptest.NewRecorder()

	h.CreateReadingMaterial(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var got apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Code != model.ErrCodeInvalidLink {
		t.Errorf("code = %q, want %q", got.Code, model.ErrCodeInvalidLink)
	}
}

func TestCreateReadingMaterial_EmptyLink_SkipsValidation(t *testing.T) {
	guard := &mockLinkGuard{}
	h := NewReadingMaterialHandler(&mockReadingMaterialRepo{}, guard)

	body := `{"title":"紙の本のみ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reading-materials", strings.NewReader(body))
	req = withUser(req, &model.User{ID: "admin-1", Role: model.RoleAdmin})
	w := httptest.NewRecorder()

	h.CreateReadingMaterial(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}
	if len(guard.validated) != 0 {
		t.Errorf("validation should be skipped for empty link, got %v", guard.validated)
	}
}

func TestCreateReadingMaterial_MissingTitle_Returns400(t *testing.T) {
	h := NewReadingMaterialHandler(&mockReadingMaterialRepo{}, &mockLinkGuard{})

	req := httptest.NewRequest(http.MethodPost, "/api/reading-materials", strings.NewReader(`{"author":"AA"}`))
	req = withUser(req, &model.User{ID: "admin-1", Role: model.RoleAdmin})
	w := httptest.NewRecorder()

	h.CreateReadingMaterial(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}
