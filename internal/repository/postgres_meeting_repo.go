package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresMeetingRepo はPostgreSQLを使用したミーティング出席記録リポジトリ。
type PostgresMeetingRepo struct {
	db *sql.DB
}

// NewPostgresMeetingRepo はPostgresMeetingRepoを生成する。
func NewPostgresMeetingRepo(db *sql.DB) *PostgresMeetingRepo {
	return &PostgresMeetingRepo{db: db}
}

// Create は出席記録を作成する。
func (r *PostgresMeetingRepo) Create(ctx context.Context, meeting *model.Meeting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meetings (id, user_id, meeting_date, meeting_type, attended, notes, recorded_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		meeting.ID, meeting.UserID, meeting.MeetingDate, meeting.MeetingType,
		meeting.Attended, meeting.Notes, meeting.RecordedBy, meeting.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// ListByScope はスコープ内の出席記録をミーティング日降順で返す。
func (r *PostgresMeetingRepo) ListByScope(ctx context.Context, scope model.QueryScope) ([]*model.Meeting, error) {
	where, args := scopeFilter(scope)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, meeting_date, meeting_type, attended, notes, recorded_by, created_at
		 FROM meetings`+where+` ORDER BY meeting_date DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*model.Meeting
	for rows.Next() {
		meeting := &model.Meeting{}
		if err := rows.Scan(&meeting.ID, &meeting.UserID, &meeting.MeetingDate, &meeting.MeetingType,
			&meeting.Attended, &meeting.Notes, &meeting.RecordedBy, &meeting.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return meetings, nil
}

// compile-time interface check
var _ MeetingRepository = (*PostgresMeetingRepo)(nil)
