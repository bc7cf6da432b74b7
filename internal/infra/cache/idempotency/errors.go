package idempotency

import "errors"

// ErrStore ошибка Redis
var ErrStore = errors.New("idempotency.store: redis error")
