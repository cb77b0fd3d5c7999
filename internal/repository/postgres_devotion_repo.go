package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresDevotionRepo はPostgreSQLを使用したデボーションリポジトリ。
type PostgresDevotionRepo struct {
	db *sql.DB
}

// NewPostgresDevotionRepo はPostgresDevotionRepoを生成する。
func NewPostgresDevotionRepo(db *sql.DB) *PostgresDevotionRepo {
	return &PostgresDevotionRepo{db: db}
}

// Create はデボーションを作成する。
func (r *PostgresDevotionRepo) Create(ctx context.Context, devotion *model.Devotion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devotions (id, title, content, scripture_reference, author_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		devotion.ID, devotion.Title, devotion.Content, devotion.ScriptureReference,
		devotion.AuthorID, devotion.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create devotion: %w", err)
	}
	return nil
}

// ListAll は全デボーションを作成日時降順で返す。
func (r *PostgresDevotionRepo) ListAll(ctx context.Context) ([]*model.Devotion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, content, scripture_reference, author_id, created_at
		 FROM devotions
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list devotions: %w", err)
	}
	defer rows.Close()

	var devotions []*model.Devotion
	for rows.Next() {
		devotion := &model.Devotion{}
		if err := rows.Scan(&devotion.ID, &devotion.Title, &devotion.Content,
			&devotion.ScriptureReference, &devotion.AuthorID, &devotion.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan devotion: %w", err)
		}
		devotions = append(devotions, devotion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devotions: %w", err)
	}

	return devotions, nil
}

// compile-time interface check
var _ DevotionRepository = (*PostgresDevotionRepo)(nil)
