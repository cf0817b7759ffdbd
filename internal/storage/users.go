package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/creatorlens/creator-analytics/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его uid.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, joined_at,
			      has_paid_subscription)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.JoinedAt,
		user.HasPaidSubscription).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, joined_at,
			      has_paid_subscription, coupon_redeemed_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUserByUID возвращает пользователя по его uid.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, joined_at,
			      has_paid_subscription, coupon_redeemed_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, uid), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var couponRedeemedAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.JoinedAt, &u.HasPaidSubscription, &couponRedeemedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if couponRedeemedAt.Valid {
		u.CouponRedeemedAt = &couponRedeemedAt.Time
	}
	return u, nil
}

// ListUsers возвращает список пользователей с пагинацией.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, joined_at,
			      has_paid_subscription, coupon_redeemed_at
			  FROM users
			  ORDER BY joined_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var couponRedeemedAt sql.NullTime
		if err := rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
			&u.Role, &u.JoinedAt, &u.HasPaidSubscription, &couponRedeemedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if couponRedeemedAt.Valid {
			u.CouponRedeemedAt = &couponRedeemedAt.Time
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUser удаляет пользователя по uid и возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, uid string) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetCouponRedeemedAt записывает время активации купона пользователем.
func (s *Storage) SetCouponRedeemedAt(ctx context.Context, uid string, redeemedAt time.Time) error {
	const op = "storage.SetCouponRedeemedAt"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET coupon_redeemed_at = $1 WHERE uid = $2`, redeemedAt, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetPaidSubscription выставляет или снимает флаг оплаченной подписки.
func (s *Storage) SetPaidSubscription(ctx context.Context, uid string, paid bool) error {
	const op = "storage.SetPaidSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET has_paid_subscription = $1 WHERE uid = $2`, paid, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// ClearExpiredPaidFlag снимает флаг оплаченной подписки, если у пользователя
// нет ни одной подписки с датой окончания не раньше now. Возвращает true,
// если флаг был снят.
func (s *Storage) ClearExpiredPaidFlag(ctx context.Context, uid string, now time.Time) (bool, error) {
	const op = "storage.ClearExpiredPaidFlag"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET has_paid_subscription = false
			  WHERE uid = $1
			    AND has_paid_subscription = true
			    AND NOT EXISTS (
			        SELECT 1 FROM subscriptions
			        WHERE user_uid = $1 AND end_date >= $2
			    )`
	result, err := s.DB.ExecContext(ctx, query, uid, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
