// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/haven/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はemail完全一致でユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// ListAll は全ユーザーを作成日時降順で返す。
	ListAll(ctx context.Context) ([]*model.User, error)

	// UpdateRole は指定ユーザーのロールを更新する。
	// 対象が存在しない場合はfalseを返す。
	UpdateRole(ctx context.Context, id string, role model.Role) (bool, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
// 期限切れ判定はリポジトリではなく呼び出し側（Identity Resolver）が行う。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByToken はトークン完全一致でセッションを取得する。
	// 期限切れでもレコードが存在すればそのまま返す。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Session, error)

	// DeleteByToken は指定トークンのセッションを削除する。
	// 対象が存在しなくてもエラーにしない（冪等）。
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpiredBefore は指定時刻より前に期限切れとなったセッションを
	// 一括削除し、削除件数を返す。reaperワーカー専用。
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DrugTestRepository は薬物検査記録の永続化インターフェース。
type DrugTestRepository interface {
	// Create は検査記録を作成する。
	Create(ctx context.Context, test *model.DrugTest) error

	// ListByScope はスコープ内の検査記録を検査日降順で返す。
	ListByScope(ctx context.Context, scope model.QueryScope) ([]*model.DrugTest, error)
}

// MeetingRepository はミーティング出席記録の永続化インターフェース。
type MeetingRepository interface {
	// Create は出席記録を作成する。
	Create(ctx context.Context, meeting *model.Meeting) error

	// ListByScope はスコープ内の出席記録をミーティング日降順で返す。
	ListByScope(ctx context.Context, scope model.QueryScope) ([]*model.Meeting, error)
}

// RentPaymentRepository は家賃支払い記録の永続化インターフェース。
type RentPaymentRepository interface {
	// Create は支払い記録を作成する。
	Create(ctx context.Context, payment *model.RentPayment) error

	// ListByScope はスコープ内の支払い記録を支払い日降順で返す。
	ListByScope(ctx context.Context, scope model.QueryScope) ([]*model.RentPayment, error)

	// Confirm は支払いを確認済みに更新する。
	// 対象が存在しない場合はfalseを返す。
	Confirm(ctx context.Context, id string, confirmed bool, confirmedBy string, confirmedAt time.Time) (bool, error)
}

// DevotionRepository はデボーションの永続化インターフェース。
type DevotionRepository interface {
	// Create はデボーションを作成する。
	Create(ctx context.Context, devotion *model.Devotion) error

	// ListAll は全デボーションを作成日時降順で返す。
	ListAll(ctx context.Context) ([]*model.Devotion, error)
}

// ReadingMaterialRepository は読書資料の永続化インターフェース。
type ReadingMaterialRepository interface {
	// Create は読書資料を作成する。
	Create(ctx context.Context, material *model.ReadingMaterial) error

	// ListAll は全読書資料を作成日時降順で返す。
	ListAll(ctx context.Context) ([]*model.ReadingMaterial, error)
}

// MessageRepository はメッセージの永続化インターフェース。
type MessageRepository interface {
	// Create はメッセージを作成する。宛先は作成時点で解決済みであること。
	Create(ctx context.Context, message *model.Message) error

	// ListVisibleTo は指定ユーザーが送信者・直接宛先・ブロードキャスト宛先の
	// いずれかであるメッセージを作成日時降順で返す。
	ListVisibleTo(ctx context.Context, userID string) ([]*model.Message, error)

	// MarkRead は指定メッセージを既読にする。
	// 対象が存在しない場合はfalseを返す。
	MarkRead(ctx context.Context, id string) (bool, error)
}

// CalendarEventRepository はカレンダーイベントの永続化インターフェース。
type CalendarEventRepository interface {
	// Create はイベントを作成する。
	Create(ctx context.Context, event *model.CalendarEvent) error

	// ListAll は全イベントをイベント日昇順で返す。
	ListAll(ctx context.Context) ([]*model.CalendarEvent, error)
}
