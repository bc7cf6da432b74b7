package checkout

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// View состояние сессии для клиента
type View struct {
	Session *domain.CheckoutSession
	Step    domain.StepID
	Percent int
	// StepResult результат проверки при переходе вперед
	StepResult *domain.StepResult
}

// SetFieldRequest изменение одного поля черновика
type SetFieldRequest struct {
	SessionID string
	Step      domain.StepID
	Name      string
	Value     interface{}
}

// SubmitResponse созданное (или переиспользованное) платежное намерение
type SubmitResponse struct {
	Intent  *domain.PaymentIntent
	Pricing domain.PricingBreakdown
}

// CompleteResponse итог оформления
type CompleteResponse struct {
	Booking *domain.Booking
	Intent  *domain.PaymentIntent
}
