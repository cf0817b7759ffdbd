// Package models содержит доменные структуры пользователя, подписки и купона,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей. Админ получает доступ к премиум-функциям безусловно.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CouponGracePeriod период действия премиум-доступа после активации
// пробного купона.
const CouponGracePeriod = 14 * 24 * time.Hour

// User основная модель пользователя, используемая в бизнес-логике и хранилище.
// CouponRedeemedAt равен nil, если пользователь не активировал купон.
type User struct {
	UID                 string
	Email               string
	Username            string
	PasswordHash        string
	Role                string
	JoinedAt            time.Time
	HasPaidSubscription bool
	CouponRedeemedAt    *time.Time
	Subscription        *Subscription
}
