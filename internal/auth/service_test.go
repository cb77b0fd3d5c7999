package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/haven/internal/model"
)

// --- モック定義 ---

type mockExchanger struct {
	exchangeFn func(ctx context.Context, externalSessionID string) (*ExchangeResult, error)
}

func (m *mockExchanger) Exchange(ctx context.Context, externalSessionID string) (*ExchangeResult, error) {
	if m.exchangeFn != nil {
		return m.exchangeFn(ctx, externalSessionID)
	}
	return nil, errors.New("not configured")
}

type mockUserRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
	created       []*model.User
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.created = append(m.created, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) ListAll(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) (bool, error) {
	return false, nil
}

type mockSessionRepo struct {
	findByTokenFn func(ctx context.Context, token string) (*model.Session, error)
	created       []*model.Session
	deletedTokens []string
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	m.created = append(m.created, session)
	return nil
}

func (m *mockSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	m.deletedTokens = append(m.deletedTokens, token)
	return nil
}

func (m *mockSessionRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type mockRecorder struct {
	issued           int
	revoked          int
	authFailures     map[string]int
	exchangeFailures int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{authFailures: make(map[string]int)}
}

func (m *mockRecorder) RecordSessionIssued()  { m.issued++ }
func (m *mockRecorder) RecordSessionRevoked() { m.revoked++ }
func (m *mockRecorder) RecordAuthFailure(reason string) {
	m.authFailures[reason]++
}
func (m *mockRecorder) RecordExchangeFailure() { m.exchangeFailures++ }

// --- テスト ---

var testNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func newTestService(exchanger *mockExchanger, users *mockUserRepo, sessions *mockSessionRepo, recorder *mockRecorder) *Service {
	svc := NewService(exchanger, users, sessions, recorder, ServiceConfig{SessionTTL: 7 * 24 * time.Hour})
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestEstablishSession_ExchangeFailure_NoWrites(t *testing.T) {
	exchanger := &mockExchanger{
		exchangeFn: func(ctx context.Context, id string) (*ExchangeResult, error) {
			return nil, errors.New("oracle unreachable")
		},
	}
	users := &mockUserRepo{}
	sessions := &mockSessionRepo{}
	recorder := newMockRecorder()

	svc := newTestService(exchanger, users, sessions, recorder)

	_, _, err := svc.EstablishSession(context.Background(), "one-time-id")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeExchangeFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeExchangeFailed)
	}

	// 交換失敗時はユーザーもセッションも一切作成しない
	if len(users.created) != 0 {
		t.Errorf("users created = %d, want 0", len(users.created))
	}
	if len(sessions.created) != 0 {
		t.Errorf("sessions created = %d, want 0", len(sessions.created))
	}
	if recorder.exchangeFailures != 1 {
		t.Errorf("exchangeFailures = %d, want 1", recorder.exchangeFailures)
	}
}

func TestEstablishSession_NewUser_CreatedWithUserRole(t *testing.T) {
	exchanger := &mockExchanger{
		exchangeFn: func(ctx context.Context, id string) (*ExchangeResult, error) {
			return &ExchangeResult{
				Email:        "newcomer@example.com",
				Name:         "Newcomer",
				Picture:      "https://example.com/p.png",
				SessionToken: "oracle-token-1",
			}, nil
		},
	}
	users := &mockUserRepo{} // FindByEmail はnilを返す = 未登録
	sessions := &mockSessionRepo{}
	recorder := newMockRecorder()

	svc := newTestService(exchanger, users, sessions, recorder)

	session, user, err := svc.EstablishSession(context.Background(), "one-time-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.created) != 1 {
		t.Fatalf("users created = %d, want 1", len(users.created))
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
	}
	if user.Email != "newcomer@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "newcomer@example.com")
	}

	// セッショントークンは交換結果のものをそのまま使用する
	if session.Token != "oracle-token-1" {
		t.Errorf("token = %q, want %q", session.Token, "oracle-token-1")
	}
	if session.UserID != user.ID {
		t.Errorf("session.UserID = %q, want %q", session.UserID, user.ID)
	}

	// 有効期限は発行時点 + TTL
	wantExpiry := testNow.Add(7 * 24 * time.Hour)
	if !session.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiresAt = %v, want %v", session.ExpiresAt, wantExpiry)
	}
	if recorder.issued != 1 {
		t.Errorf("issued = %d, want 1", recorder.issued)
	}
}

func TestEstablishSession_ExistingUser_NotDuplicated(t *testing.T) {
	existing := &model.User{
		ID:    "user-1",
		Email: "resident@example.com",
		Role:  model.RoleMentor,
	}
	exchanger := &mockExchanger{
		exchangeFn: func(ctx context.Context, id string) (*ExchangeResult, error) {
			return &ExchangeResult{
				Email:        "resident@example.com",
				Name:         "Resident",
				SessionToken: "oracle-token-2",
			}, nil
		},
	}
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return existing, nil
		},
	}
	sessions := &mockSessionRepo{}
	recorder := newMockRecorder()

	svc := newTestService(exchanger, users, sessions, recorder)

	_, user, err := svc.EstablishSession(context.Background(), "one-time-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.created) != 0 {
		t.Errorf("users created = %d, want 0", len(users.created))
	}
	// 既存ユーザーのロールは維持される（再ログインで降格しない）
	if user.Role != model.RoleMentor {
		t.Errorf("role = %q, want %q", user.Role, model.RoleMentor)
	}
}

func TestEstablishSession_SecondLogin_DoesNotAffectFirstSession(t *testing.T) {
	exchanger := &mockExchanger{
		exchangeFn: func(ctx context.Context, id string) (*ExchangeResult, error) {
			return &ExchangeResult{
				Email:        "resident@example.com",
				SessionToken: "token-" + id,
			}, nil
		},
	}
	users := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, Role: model.RoleUser}, nil
		},
	}
	sessions := &mockSessionRepo{}
	recorder := newMockRecorder()

	svc := newTestService(exchanger, users, sessions, recorder)

	if _, _, err := svc.EstablishSession(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.EstablishSession(context.Background(), "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 同一ユーザーの複数同時セッションが両方保存されている
	if len(sessions.created) != 2 {
		t.Fatalf("sessions created = %d, want 2", len(sessions.created))
	}
	if len(sessions.deletedTokens) != 0 {
		t.Errorf("deleted = %d, want 0", len(sessions.deletedTokens))
	}
}

func TestResolveUser_EmptyToken_ReturnsNil(t *testing.T) {
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, &mockSessionRepo{}, newMockRecorder())

	user, err := svc.ResolveUser(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}

func TestResolveUser_UnknownToken_ReturnsNil(t *testing.T) {
	recorder := newMockRecorder()
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, &mockSessionRepo{}, recorder)

	user, err := svc.ResolveUser(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
	if recorder.authFailures["session_not_found"] != 1 {
		t.Errorf("session_not_found failures = %d, want 1", recorder.authFailures["session_not_found"])
	}
}

func TestResolveUser_ExpiredSession_ReturnsNilAndKeepsRecord(t *testing.T) {
	sessions := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return &model.Session{
				Token:     token,
				UserID:    "user-1",
				ExpiresAt: testNow.Add(-1 * time.Minute),
			}, nil
		},
	}
	recorder := newMockRecorder()
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, sessions, recorder)

	user, err := svc.ResolveUser(context.Background(), "expired-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}

	// 期限切れレコードは暗黙に削除されない
	if len(sessions.deletedTokens) != 0 {
		t.Errorf("deleted = %v, want none", sessions.deletedTokens)
	}
	if recorder.authFailures["session_expired"] != 1 {
		t.Errorf("session_expired failures = %d, want 1", recorder.authFailures["session_expired"])
	}
}

func TestResolveUser_UserDeletedOutOfBand_ReturnsNil(t *testing.T) {
	sessions := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return &model.Session{
				Token:     token,
				UserID:    "ghost",
				ExpiresAt: testNow.Add(time.Hour),
			}, nil
		},
	}
	recorder := newMockRecorder()
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, sessions, recorder)

	user, err := svc.ResolveUser(context.Background(), "orphan-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
	if recorder.authFailures["user_not_found"] != 1 {
		t.Errorf("user_not_found failures = %d, want 1", recorder.authFailures["user_not_found"])
	}
}

func TestResolveUser_ValidSession_ReadsFreshRole(t *testing.T) {
	role := model.RoleUser
	sessions := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return &model.Session{
				Token:     token,
				UserID:    "user-1",
				ExpiresAt: testNow.Add(time.Hour),
			}, nil
		},
	}
	users := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: role}, nil
		},
	}
	svc := newTestService(&mockExchanger{}, users, sessions, newMockRecorder())

	user, err := svc.ResolveUser(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
	}

	// ロール変更後の解決は変更後のロールを返す（セッションにロールを保持しない）
	role = model.RoleAdmin
	user, err = svc.ResolveUser(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", user.Role, model.RoleAdmin)
	}
}

func TestResolveUser_StorageError_ReturnsError(t *testing.T) {
	sessions := &mockSessionRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Session, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, sessions, newMockRecorder())

	if _, err := svc.ResolveUser(context.Background(), "token-1"); err == nil {
		t.Fatal("expected error for storage failure")
	}
}

func TestLogout_EmptyToken_Noop(t *testing.T) {
	sessions := &mockSessionRepo{}
	recorder := newMockRecorder()
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, sessions, recorder)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions.deletedTokens) != 0 {
		t.Errorf("deleted = %v, want none", sessions.deletedTokens)
	}
}

func TestLogout_RevokesSession_Idempotent(t *testing.T) {
	sessions := &mockSessionRepo{}
	recorder := newMockRecorder()
	svc := newTestService(&mockExchanger{}, &mockUserRepo{}, sessions, recorder)

	// 同じトークンで2回失効させても両方成功する
	if err := svc.Logout(context.Background(), "token-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Logout(context.Background(), "token-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sessions.deletedTokens) != 2 {
		t.Errorf("delete calls = %d, want 2", len(sessions.deletedTokens))
	}
	if recorder.revoked != 2 {
		t.Errorf("revoked = %d, want 2", recorder.revoked)
	}
}
