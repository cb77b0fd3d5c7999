package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresCalendarEventRepo はPostgreSQLを使用したカレンダーイベントリポジトリ。
type PostgresCalendarEventRepo struct {
	db *sql.DB
}

// NewPostgresCalendarEventRepo はPostgresCalendarEventRepoを生成する。
func NewPostgresCalendarEventRepo(db *sql.DB) *PostgresCalendarEventRepo {
	return &PostgresCalendarEventRepo{db: db}
}

// Create はイベントを作成する。
func (r *PostgresCalendarEventRepo) Create(ctx context.Context, event *model.CalendarEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calendar_events (id, title, description, event_date, event_type, location, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Title, event.Description, event.EventDate,
		event.EventType, event.Location, event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}
	return nil
}

// ListAll は全イベントをイベント日昇順で返す。
// 昇順なのは予定表表示（直近のイベントが先頭）のため。
func (r *PostgresCalendarEventRepo) ListAll(ctx context.Context) ([]*model.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, event_date, event_type, location, created_by, created_at
		 FROM calendar_events
		 ORDER BY event_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	var events []*model.CalendarEvent
	for rows.Next() {
		event := &model.CalendarEvent{}
		if err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.EventDate,
			&event.EventType, &event.Location, &event.CreatedBy, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}

	return events, nil
}

// compile-time interface check
var _ CalendarEventRepository = (*PostgresCalendarEventRepo)(nil)
