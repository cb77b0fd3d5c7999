package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresDrugTestRepo はPostgreSQLを使用した薬物検査記録リポジトリ。
type PostgresDrugTestRepo struct {
	db *sql.DB
}

// NewPostgresDrugTestRepo はPostgresDrugTestRepoを生成する。
func NewPostgresDrugTestRepo(db *sql.DB) *PostgresDrugTestRepo {
	return &PostgresDrugTestRepo{db: db}
}

// Create は検査記録を作成する。
func (r *PostgresDrugTestRepo) Create(ctx context.Context, test *model.DrugTest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO drug_tests (id, user_id, test_date, test_type, result, administered_by, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		test.ID, test.UserID, test.TestDate, test.TestType, test.Result,
		test.AdministeredBy, test.Notes, test.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create drug test: %w", err)
	}
	return nil
}

// ListByScope はスコープ内の検査記録を検査日降順で返す。
func (r *PostgresDrugTestRepo) ListByScope(ctx context.Context, scope model.QueryScope) ([]*model.DrugTest, error) {
	where, args := scopeFilter(scope)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, test_date, test_type, result, administered_by, notes, created_at
		 FROM drug_tests`+where+` ORDER BY test_date DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drug tests: %w", err)
	}
	defer rows.Close()

	var tests []*model.DrugTest
	for rows.Next() {
		test := &model.DrugTest{}
		if err := rows.Scan(&test.ID, &test.UserID, &test.TestDate, &test.TestType,
			&test.Result, &test.AdministeredBy, &test.Notes, &test.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan drug test: %w", err)
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drug tests: %w", err)
	}

	return tests, nil
}

// compile-time interface check
var _ DrugTestRepository = (*PostgresDrugTestRepo)(nil)
