package processor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Тестовые способы оплаты в соглашениях процессора
const (
	MethodVisa                 = "pm_card_visa"
	MethodDeclined             = "pm_card_chargeDeclined"
	MethodInsufficientFunds    = "pm_card_chargeDeclinedInsufficientFunds"
	MethodExpiredCard          = "pm_card_chargeDeclinedExpiredCard"
	MethodIncorrectCVC         = "pm_card_chargeDeclinedIncorrectCvc"
	MethodProcessingError      = "pm_card_chargeDeclinedProcessingError"
	MethodProcessorUnavailable = "pm_card_processorUnavailable"
)

// declinesByMethod способ оплаты -> код отказа
var declinesByMethod = map[string]string{
	MethodDeclined:          domain.DeclineCardDeclined,
	MethodInsufficientFunds: domain.DeclineInsufficientFunds,
	MethodExpiredCard:       domain.DeclineExpiredCard,
	MethodIncorrectCVC:      domain.DeclineIncorrectCVC,
	MethodProcessingError:   domain.DeclineProcessingError,
}

// Mock процессор без внешних вызовов.
// Любой способ оплаты, кроме тестовых отказных, проходит успешно
type Mock struct{}

// NewMock создает mock процессор
func NewMock() *Mock {
	return &Mock{}
}

// Charge имитирует списание
func (m *Mock) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if req.PaymentMethodID == MethodProcessorUnavailable {
		return nil, fmt.Errorf("%w: intent=%s", ErrUnavailable, req.IntentID)
	}

	ref := "ch_" + uuid.NewString()
	if code, ok := declinesByMethod[req.PaymentMethodID]; ok {
		return &ChargeResult{Approved: false, DeclineCode: code, ProcessorRef: ref}, nil
	}

	return &ChargeResult{Approved: true, ProcessorRef: ref}, nil
}
