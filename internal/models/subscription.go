package models

import "time"

// Идентификаторы планов подписки. Фиксированный набор, другие значения
// хранилище не принимает.
const (
	PlanEventLaunch = "event_launch"
	PlanTrial       = "trial"
	Plan1Month      = "1month"
	Plan3Months     = "3months"
	Plan6Months     = "6months"
	Plan12Months    = "12months"
)

// Статусы подписки. Хранимое значение носит справочный характер:
// любое чтение обязано заново выводить статус из даты окончания
// через EffectiveStatus, а не доверять сохранённой строке.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Subscription подписка пользователя с окном действия.
type Subscription struct {
	ID        int
	UserUID   string
	Plan      string
	Status    string
	StartDate time.Time
	EndDate   time.Time
}

// EffectiveStatus выводит статус подписки из даты окончания.
// Подписка активна, пока now не позже EndDate.
func (s *Subscription) EffectiveStatus(now time.Time) string {
	if now.After(s.EndDate) {
		return StatusExpired
	}
	return StatusActive
}

// Plan тарифный план с ценой в вонах и длительностью в месяцах.
type Plan struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int    `json:"price"`
	DurationMonths int    `json:"duration_months"`
	Discount       int    `json:"discount,omitempty"`
	Description    string `json:"description,omitempty"`
}
