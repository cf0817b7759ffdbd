package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/creatorlens/creator-analytics/internal/models"
)

// CreateCoupons вставляет партию купонов одной транзакцией.
func (s *Storage) CreateCoupons(ctx context.Context, coupons []models.Coupon) error {
	const op = "storage.CreateCoupons"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck // откат после успешного коммита безвреден

	query := `INSERT INTO coupons (id, code, duration_class, used, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	for _, c := range coupons {
		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Code, float64(c.DurationClass), c.Used, c.CreatedAt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListCoupons возвращает список купонов с пагинацией, новые раньше.
func (s *Storage) ListCoupons(ctx context.Context, limit, offset int) ([]*models.Coupon, error) {
	const op = "storage.ListCoupons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, duration_class, used, created_at, used_by, used_at
			  FROM coupons
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCouponCodes возвращает множество всех выпущенных кодов.
// Используется при генерации для проверки уникальности новой партии.
func (s *Storage) ListCouponCodes(ctx context.Context) (map[string]struct{}, error) {
	const op = "storage.ListCouponCodes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT code FROM coupons`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	codes := make(map[string]struct{})
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		codes[code] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return codes, nil
}

// GetCouponByCode возвращает купон по коду.
func (s *Storage) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	const op = "storage.GetCouponByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, duration_class, used, created_at, used_by, used_at
			  FROM coupons
			  WHERE code = $1`
	row := s.DB.QueryRowContext(ctx, query, code)

	c, err := scanCoupon(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCouponNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// MarkCouponUsed помечает купон использованным ровно один раз.
// Условный UPDATE по used = false гарантирует, что из двух конкурентных
// активаций одного кода успеет только одна.
func (s *Storage) MarkCouponUsed(ctx context.Context, code, usedBy string, usedAt time.Time) (*models.Coupon, error) {
	const op = "storage.MarkCouponUsed"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE coupons
			  SET used = true, used_by = $2, used_at = $3
			  WHERE code = $1 AND used = false
			  RETURNING id, code, duration_class, used, created_at, used_by, used_at`
	row := s.DB.QueryRowContext(ctx, query, code, usedBy, usedAt)

	c, err := scanCoupon(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Обновление никого не задело: либо кода нет, либо купон уже использован.
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, ErrCouponNotFound)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrCouponAlreadyUsed)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*models.Coupon, error) {
	c := &models.Coupon{}
	var durationClass float64
	var usedBy sql.NullString
	var usedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.Code, &durationClass, &c.Used, &c.CreatedAt,
		&usedBy, &usedAt); err != nil {
		return nil, err
	}
	c.DurationClass = models.DurationClass(durationClass)
	if usedBy.Valid {
		c.UsedBy = &usedBy.String
	}
	if usedAt.Valid {
		c.UsedAt = &usedAt.Time
	}
	return c, nil
}
