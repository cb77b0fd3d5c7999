package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/haven/internal/model"
)

// PostgresRentPaymentRepo はPostgreSQLを使用した家賃支払い記録リポジトリ。
type PostgresRentPaymentRepo struct {
	db *sql.DB
}

// NewPostgresRentPaymentRepo はPostgresRentPaymentRepoを生成する。
func NewPostgresRentPaymentRepo(db *sql.DB) *PostgresRentPaymentRepo {
	return &PostgresRentPaymentRepo{db: db}
}

// Create は支払い記録を作成する。
func (r *PostgresRentPaymentRepo) Create(ctx context.Context, payment *model.RentPayment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rent_payments (id, user_id, payment_date, amount, confirmed, confirmed_by, confirmation_date, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID, payment.UserID, payment.PaymentDate, payment.Amount,
		payment.Confirmed, payment.ConfirmedBy, payment.ConfirmationDate,
		payment.Notes, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rent payment: %w", err)
	}
	return nil
}

// ListByScope はスコープ内の支払い記録を支払い日降順で返す。
func (r *PostgresRentPaymentRepo) ListByScope(ctx context.Context, scope model.QueryScope) ([]*model.RentPayment, error) {
	where, args := scopeFilter(scope)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, payment_date, amount, confirmed, confirmed_by, confirmation_date, notes, created_at
		 FROM rent_payments`+where+` ORDER BY payment_date DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rent payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.RentPayment
	for rows.Next() {
		payment := &model.RentPayment{}
		if err := rows.Scan(&payment.ID, &payment.UserID, &payment.PaymentDate, &payment.Amount,
			&payment.Confirmed, &payment.ConfirmedBy, &payment.ConfirmationDate,
			&payment.Notes, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rent payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rent payments: %w", err)
	}

	return payments, nil
}

// Confirm は支払いを確認済みに更新する。対象が存在しない場合はfalseを返す。
func (r *PostgresRentPaymentRepo) Confirm(ctx context.Context, id string, confirmed bool, confirmedBy string, confirmedAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rent_payments
		 SET confirmed = $1, confirmed_by = $2, confirmation_date = $3
		 WHERE id = $4`,
		confirmed, confirmedBy, confirmedAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm rent payment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// compile-time interface check
var _ RentPaymentRepository = (*PostgresRentPaymentRepo)(nil)
