package form

import "github.com/m04kA/SMC-CoachBookingService/internal/domain"

// Store черновик бронирования и ошибки валидации по шагам
// Владелец один - сессия оформления, поэтому блокировок нет
type Store struct {
	draft  domain.BookingDraft
	errors map[domain.StepID]map[string]string
}

// New пустая форма
func New() *Store {
	return &Store{errors: make(map[domain.StepID]map[string]string)}
}

// Restore восстанавливает форму из сохраненной сессии
func Restore(draft domain.BookingDraft, errs map[domain.StepID]map[string]string) *Store {
	s := New()
	s.draft = draft
	for step, fields := range errs {
		s.SetErrors(step, fields)
	}
	return s
}

// GetField возвращает текущее значение поля
func (s *Store) GetField(step domain.StepID, name string) (interface{}, error) {
	f, err := lookup(step, name)
	if err != nil {
		return nil, err
	}
	return f.get(&s.draft), nil
}

// SetField записывает значение и снимает ошибку валидации с этого поля
func (s *Store) SetField(step domain.StepID, name string, value interface{}) error {
	f, err := lookup(step, name)
	if err != nil {
		return err
	}
	if err := f.set(&s.draft, value); err != nil {
		return err
	}

	if stepErrs, ok := s.errors[step]; ok {
		delete(stepErrs, name)
		if len(stepErrs) == 0 {
			delete(s.errors, step)
		}
	}
	return nil
}

// Reset очищает черновик и все ошибки
func (s *Store) Reset() {
	s.draft = domain.BookingDraft{}
	s.errors = make(map[domain.StepID]map[string]string)
}

// Errors ошибки шага (копия)
func (s *Store) Errors(step domain.StepID) map[string]string {
	result := make(map[string]string, len(s.errors[step]))
	for name, msg := range s.errors[step] {
		result[name] = msg
	}
	return result
}

// SetErrors заменяет ошибки шага; пустой набор удаляет их
func (s *Store) SetErrors(step domain.StepID, errs map[string]string) {
	if len(errs) == 0 {
		delete(s.errors, step)
		return
	}
	copied := make(map[string]string, len(errs))
	for name, msg := range errs {
		copied[name] = msg
	}
	s.errors[step] = copied
}

// AllErrors ошибки всех шагов (копия)
func (s *Store) AllErrors() map[domain.StepID]map[string]string {
	result := make(map[domain.StepID]map[string]string, len(s.errors))
	for step := range s.errors {
		result[step] = s.Errors(step)
	}
	return result
}

// Draft копия черновика
func (s *Store) Draft() domain.BookingDraft {
	d := s.draft
	d.AddOns = append([]string(nil), s.draft.AddOns...)
	if s.draft.Coach.PricePerSession != nil {
		price := *s.draft.Coach.PricePerSession
		d.Coach.PricePerSession = &price
	}
	return d
}

// ScrubPayment убирает номер карты и CVV из черновика
func (s *Store) ScrubPayment() {
	s.draft.Payment.Scrub()
}
