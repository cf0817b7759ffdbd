package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/creatorlens/creator-analytics/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, plan, status, start_date, end_date)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.Plan, sub.Status, sub.StartDate, sub.EndDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLatestSubscription возвращает подписку пользователя с самой поздней
// датой окончания. Хранимый статус носит справочный характер, вызывающая
// сторона обязана вывести актуальный через EffectiveStatus.
func (s *Storage) GetLatestSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetLatestSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan, status, start_date, end_date
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY end_date DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.Plan, &result.Status,
		&result.StartDate, &result.EndDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListSubscriptions возвращает все подписки пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan, status, start_date, end_date
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY end_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Plan, &item.Status,
			&item.StartDate, &item.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
