// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
// user < mentor < admin の順で権限が強くなる。
type Role string

const (
	// RoleUser はプログラム入居者（一般ユーザー）を示す。
	RoleUser Role = "user"
	// RoleMentor はメンター（記録の閲覧・作成権限を持つ）を示す。
	RoleMentor Role = "mentor"
	// RoleAdmin は管理者（ロール変更・デボーション作成権限を持つ）を示す。
	RoleAdmin Role = "admin"
)

// Valid はロールが定義済みの値かを検証する。
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleMentor, RoleAdmin:
		return true
	}
	return false
}

// In はロールが指定された集合に含まれるかを返す。
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User は認証済みサブジェクト（プログラム入居者・メンター・管理者）を表す。
// 外部アイデンティティ交換の初回成功時にemail単位で作成される。
// ロールの変更はadminによる明示的な操作でのみ行われる。
type User struct {
	ID        string
	Email     string
	Name      string
	Picture   string
	Role      Role
	CreatedAt time.Time
}

// Session は不透明トークンと1ユーザーの紐付けを表す。
// 有効期限は発行時点で確定した絶対時刻であり、利用によって延長されない。
// 同一ユーザーの複数同時セッションは許可される。
// 期限切れレコードは読み取り時に無効と判定されるだけで、物理削除はされない。
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// QueryScope はリスト系クエリの可視範囲を表す。
// Unrestrictedがtrueの場合は全件、falseの場合はUserIDの所有レコードのみ。
type QueryScope struct {
	Unrestricted bool
	UserID       string
}

// ScopeAll は無制限スコープを返す。
func ScopeAll() QueryScope {
	return QueryScope{Unrestricted: true}
}

// ScopeUser は指定ユーザーの所有レコードに限定したスコープを返す。
func ScopeUser(userID string) QueryScope {
	return QueryScope{UserID: userID}
}
