package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// Create はメッセージを作成する。宛先は作成時点で解決済みであること。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	var recipientID sql.NullString
	if message.Recipient.Kind == model.RecipientDirect {
		recipientID = sql.NullString{String: message.Recipient.UserID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, recipient_kind, recipient_id, content, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		message.ID, message.SenderID, message.Recipient.Kind, recipientID,
		message.Content, message.Read, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListVisibleTo は指定ユーザーが送信者・直接宛先・ブロードキャスト宛先の
// いずれかであるメッセージを作成日時降順で返す。
func (r *PostgresMessageRepo) ListVisibleTo(ctx context.Context, userID string) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sender_id, recipient_kind, recipient_id, content, read, created_at
		 FROM messages
		 WHERE sender_id = $1
		    OR (recipient_kind = 'direct' AND recipient_id = $1)
		    OR recipient_kind = 'broadcast'
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		message := &model.Message{}
		var recipientID sql.NullString
		if err := rows.Scan(&message.ID, &message.SenderID, &message.Recipient.Kind,
			&recipientID, &message.Content, &message.Read, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if recipientID.Valid {
			message.Recipient.UserID = recipientID.String
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// MarkRead は指定メッセージを既読にする。対象が存在しない場合はfalseを返す。
func (r *PostgresMessageRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark message read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
