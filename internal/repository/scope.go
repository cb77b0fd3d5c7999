package repository

import "github.com/hitoshi/haven/internal/model"

// scopeFilter はQueryScopeをWHERE句と引数に変換する。
// 無制限スコープの場合は空のWHERE句を返す。
// スコープ付きリポジトリ（drug_tests, meetings, rent_payments）で共用する。
func scopeFilter(scope model.QueryScope) (string, []interface{}) {
	if scope.Unrestricted {
		return "", nil
	}
	return " WHERE user_id = $1", []interface{}{scope.UserID}
}
