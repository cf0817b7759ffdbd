package models

import "time"

// DurationClass класс длительности купона в месяцах.
// Значение 0.5 означает пробный период ровно в 14 дней.
type DurationClass float64

// Допустимые классы длительности купонов.
const (
	DurationTrial    DurationClass = 0.5
	Duration1Month   DurationClass = 1
	Duration3Months  DurationClass = 3
	Duration6Months  DurationClass = 6
	Duration12Months DurationClass = 12
)

// Valid проверяет, что класс длительности входит в фиксированный набор.
func (d DurationClass) Valid() bool {
	switch d {
	case DurationTrial, Duration1Month, Duration3Months, Duration6Months, Duration12Months:
		return true
	}
	return false
}

// End возвращает дату окончания подписки, активированной купоном в момент start.
func (d DurationClass) End(start time.Time) time.Time {
	if d == DurationTrial {
		return start.Add(CouponGracePeriod)
	}
	return start.AddDate(0, int(d), 0)
}

// Plan возвращает идентификатор плана, соответствующий классу длительности.
func (d DurationClass) Plan() string {
	switch d {
	case Duration1Month:
		return Plan1Month
	case Duration3Months:
		return Plan3Months
	case Duration6Months:
		return Plan6Months
	case Duration12Months:
		return Plan12Months
	default:
		return PlanTrial
	}
}

// Coupon купон на подписку. Переход used=false -> used=true происходит
// ровно один раз, повторная активация отклоняется.
type Coupon struct {
	ID            string
	Code          string
	DurationClass DurationClass
	Used          bool
	CreatedAt     time.Time
	UsedBy        *string
	UsedAt        *time.Time
}

// DummyGenerateCouponsRequest используется для приёма данных выпуска купонов из JSON-запроса.
type DummyGenerateCouponsRequest struct {
	DurationClass float64 `json:"duration_class" validate:"required"`
	Count         int     `json:"count" validate:"required,gt=0,lte=100"`
}

// DummyRedeemCouponRequest используется для приёма кода купона из JSON-запроса.
type DummyRedeemCouponRequest struct {
	Code string `json:"code" validate:"required"`
}
