package auth

import "github.com/hitoshi/haven/internal/model"

// requirementKind は認可要件の種別。
type requirementKind int

const (
	kindAnyAuthenticated requirementKind = iota
	kindRoleIn
	kindSelfOrRoleIn
)

// Requirement はエンドポイントごとの認可要件を表す。
// すべてのリソースハンドラーは要件定数をAuthorizeに渡すだけで、
// 独自のロール検査を行わない（ハンドラーごとの実装ドリフトを防ぐ）。
type Requirement struct {
	kind  requirementKind
	roles []model.Role
}

// AnyAuthenticated は認証済みであれば許可する要件を返す。
func AnyAuthenticated() Requirement {
	return Requirement{kind: kindAnyAuthenticated}
}

// RoleIn は指定ロールのいずれかを持つ場合のみ許可する要件を返す。
func RoleIn(roles ...model.Role) Requirement {
	return Requirement{kind: kindRoleIn, roles: roles}
}

// SelfOrRoleIn はリスト系エンドポイント用の要件を返す。
// 認証済みであれば常に許可するが、指定ロールを持たない場合は
// スコープが自分自身の所有レコードに強制される。
func SelfOrRoleIn(roles ...model.Role) Requirement {
	return Requirement{kind: kindSelfOrRoleIn, roles: roles}
}

// AdminOnly はadminロールのみ許可する要件を返す。
// ロール変更とデボーション作成（機関の記録）に使用する。
func AdminOnly() Requirement {
	return RoleIn(model.RoleAdmin)
}

// Authorize は解決済みユーザー（未認証の場合はnil）と要件から許可判定を行う。
// 許可の場合はリストクエリに適用するスコープを返す。
// 拒否の場合は未認証（401相当）かロール不足（403相当）かを区別した
// APIErrorを返す。
//
// targetUserIDはリクエストで明示されたリスト対象ユーザーID（任意）。
// SelfOrRoleIn以外の要件では無視される。昇格ロールを持たない呼び出し側が
// 他人のIDを指定しても、スコープは必ず自分自身のIDに上書きされる。
func Authorize(user *model.User, req Requirement, targetUserID string) (model.QueryScope, *model.APIError) {
	// 未認証はどの要件でも401相当。403とは明確に区別する。
	if user == nil {
		return model.QueryScope{}, model.NewUnauthenticatedError()
	}

	switch req.kind {
	case kindAnyAuthenticated:
		return model.ScopeAll(), nil

	case kindRoleIn:
		if !user.Role.In(req.roles...) {
			return model.QueryScope{}, model.NewForbiddenError()
		}
		return model.ScopeAll(), nil

	case kindSelfOrRoleIn:
		if user.Role.In(req.roles...) {
			// 昇格ロール: 無制限。対象IDが明示されていればそれに絞る
			if targetUserID != "" {
				return model.ScopeUser(targetUserID), nil
			}
			return model.ScopeAll(), nil
		}
		// 非昇格ロール: 呼び出し側の指定にかかわらず自分自身に強制する
		return model.ScopeUser(user.ID), nil
	}

	return model.QueryScope{}, model.NewForbiddenError()
}
