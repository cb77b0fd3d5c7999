package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/haven/internal/model"
	"github.com/hitoshi/haven/internal/repository"
)

// EventRecorder は認証イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type EventRecorder interface {
	RecordSessionIssued()
	RecordSessionRevoked()
	RecordAuthFailure(reason string)
	RecordExchangeFailure()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionTTL time.Duration // セッション有効期間（既定は7日）
}

// Service はセッションベース認証のビジネスロジックを提供する。
// Identity Resolver（トークン→ユーザー解決）とSession Lifecycle
// （発行・失効）を担う。
type Service struct {
	exchanger   IdentityExchanger
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	recorder    EventRecorder
	config      ServiceConfig

	// now は解決時点の現在時刻を返す。UTCに正規化する。テストで差し替える。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	exchanger IdentityExchanger,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	recorder EventRecorder,
	config ServiceConfig,
) *Service {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 7 * 24 * time.Hour
	}
	return &Service{
		exchanger:   exchanger,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		recorder:    recorder,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// EstablishSession は外部アイデンティティ交換を実行し、セッションを発行する。
// 交換に失敗した場合はユーザーもセッションも一切作成・変更しない。
// email単位でユーザーを検索し、未登録ならrole=userで新規作成する。
// セッショントークンは交換結果のものをそのまま使用する（ローカル生成しない）。
func (s *Service) EstablishSession(ctx context.Context, externalSessionID string) (*model.Session, *model.User, error) {
	// 1. ワンタイムIDを検証済み属性に交換
	result, err := s.exchanger.Exchange(ctx, externalSessionID)
	if err != nil {
		s.recorder.RecordExchangeFailure()
		return nil, nil, model.NewExchangeFailedError(err.Error())
	}

	// 2. emailでユーザーを検索
	user, err := s.userRepo.FindByEmail(ctx, result.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		// 3a. 新規ユーザー: role=userで作成
		user = &model.User{
			ID:        uuid.New().String(),
			Email:     result.Email,
			Name:      result.Name,
			Picture:   result.Picture,
			Role:      model.RoleUser,
			CreatedAt: s.now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	} else {
		// 3b. 既存ユーザー: そのままログイン
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
		)
	}

	// 4. セッションを発行。有効期限は発行時点 + TTL で確定し、以後延長されない。
	session, err := s.issueSession(ctx, user.ID, result.SessionToken)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

// ResolveUser は候補トークンをユーザーに解決する。
// 未認証（トークン欠落・セッション不在・期限切れ・ユーザー不在）の場合は
// (nil, nil) を返す。errorはストレージ障害のみに使用する。
// ユーザーは毎回ストレージから読み直すため、adminによるロール変更は
// 対象ユーザーの次のリクエストから即座に反映される。
func (s *Service) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	// 1. 候補トークンが無ければ未認証
	if token == "" {
		return nil, nil
	}

	// 2. トークン完全一致でセッションを検索
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		s.recorder.RecordAuthFailure("session_not_found")
		return nil, nil
	}

	// 3. 期限切れ判定。期限切れレコードは意図的にストレージへ残す
	//    （遅延期限チェック。読み取り時の暗黙削除はしない）。
	if session.ExpiresAt.Before(s.now()) {
		s.recorder.RecordAuthFailure("session_expired")
		return nil, nil
	}

	// 4. ユーザーをロード。帯域外で削除されていた場合も未認証扱い
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.recorder.RecordAuthFailure("user_not_found")
		return nil, nil
	}

	return user, nil
}

// Logout は指定トークンのセッションを失効させる。
// 冪等であり、トークンが空・セッションが既に存在しない場合もエラーにしない。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.recorder.RecordSessionRevoked()
	slog.Info("session revoked")
	return nil
}

// issueSession はセッションを作成し永続化する。
// 同一ユーザーの複数同時セッションは許可される（既存セッションに影響しない）。
func (s *Service) issueSession(ctx context.Context, userID, token string) (*model.Session, error) {
	now := s.now()
	session := &model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.config.SessionTTL),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.recorder.RecordSessionIssued()
	return session, nil
}
