package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresReadingMaterialRepo はPostgreSQLを使用した読書資料リポジトリ。
type PostgresReadingMaterialRepo struct {
	db *sql.DB
}

// NewPostgresReadingMaterialRepo はPostgresReadingMaterialRepoを生成する。
func NewPostgresReadingMaterialRepo(db *sql.DB) *PostgresReadingMaterialRepo {
	return &PostgresReadingMaterialRepo{db: db}
}

// Create は読書資料を作成する。
func (r *PostgresReadingMaterialRepo) Create(ctx context.Context, material *model.ReadingMaterial) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reading_materials (id, title, author, description, category, link, added_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		material.ID, material.Title, material.Author, material.Description,
		material.Category, material.Link, material.AddedBy, material.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reading material: %w", err)
	}
	return nil
}

// ListAll は全読書資料を作成日時降順で返す。
func (r *PostgresReadingMaterialRepo) ListAll(ctx context.Context) ([]*model.ReadingMaterial, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, author, description, category, link, added_by, created_at
		 FROM reading_materials
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reading materials: %w", err)
	}
	defer rows.Close()

	var materials []*model.ReadingMaterial
	for rows.Next() {
		material := &model.ReadingMaterial{}
		if err := rows.Scan(&material.ID, &material.Title, &material.Author, &material.Description,
			&material.Category, &material.Link, &material.AddedBy, &material.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reading material: %w", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reading materials: %w", err)
	}

	return materials, nil
}

// compile-time interface check
var _ ReadingMaterialRepository = (*PostgresReadingMaterialRepo)(nil)
