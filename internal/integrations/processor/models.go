package processor

// ChargeRequest запрос на списание по платежному намерению
type ChargeRequest struct {
	IntentID        string
	Amount          int64
	Currency        string
	PaymentMethodID string
}

// ChargeResult ответ процессора. Отказ банка - это результат, а не ошибка
type ChargeResult struct {
	Approved     bool
	DeclineCode  string
	ProcessorRef string
}
