package progress

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// StepValidator проверка текущего шага перед переходом вперед
type StepValidator interface {
	Validate(step domain.StepID, draft domain.BookingDraft) domain.StepResult
}

// Controller линейная навигация по шагам оформления:
// вперед только через валидацию, назад без проверок, перескоки запрещены
type Controller struct {
	validator StepValidator
	index     int
	ready     bool
}

// New контроллер на первом шаге
func New(validator StepValidator) *Controller {
	return &Controller{validator: validator}
}

// Restore контроллер на сохраненной позиции
func Restore(validator StepValidator, index int, ready bool) *Controller {
	if index < 0 {
		index = 0
	}
	if index >= len(domain.Steps) {
		index = len(domain.Steps) - 1
	}
	return &Controller{
		validator: validator,
		index:     index,
		ready:     ready && index == len(domain.Steps)-1,
	}
}

// Next проверяет текущий шаг; при ошибках индекс не меняется.
// На последнем шаге успешная проверка переводит оформление в готовность к оплате
func (c *Controller) Next(draft domain.BookingDraft) domain.StepResult {
	result := c.validator.Validate(c.Current(), draft)
	if !result.IsValid {
		c.ready = false
		return result
	}

	if c.index == len(domain.Steps)-1 {
		c.ready = true
		return result
	}

	c.index++
	return result
}

// Previous шаг назад без валидации; на первом шаге ничего не делает
func (c *Controller) Previous() {
	c.ready = false
	if c.index > 0 {
		c.index--
	}
}

// Current текущий шаг
func (c *Controller) Current() domain.StepID {
	return domain.Steps[c.index]
}

// Index номер текущего шага, начиная с 0
func (c *Controller) Index() int {
	return c.index
}

// ReadyToFinalize все шаги пройдены
func (c *Controller) ReadyToFinalize() bool {
	return c.ready
}

// Percent доля пройденных шагов
func (c *Controller) Percent() int {
	if c.ready {
		return 100
	}
	return c.index * 100 / len(domain.Steps)
}
