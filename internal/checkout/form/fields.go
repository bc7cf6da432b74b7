package form

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// field доступ к одному полю черновика
type field struct {
	get func(d *domain.BookingDraft) interface{}
	set func(d *domain.BookingDraft, value interface{}) error
}

// registry поля черновика по шагам
var registry = map[domain.StepID]map[string]field{
	domain.StepLocation: {
		domain.FieldLocation: stringField(func(d *domain.BookingDraft) *string { return &d.Location }),
	},
	domain.StepDateTime: {
		domain.FieldDate:      stringField(func(d *domain.BookingDraft) *string { return &d.Date }),
		domain.FieldTimeSlot:  stringField(func(d *domain.BookingDraft) *string { return &d.TimeSlot }),
		domain.FieldRecurring: boolField(func(d *domain.BookingDraft) *bool { return &d.Recurring }),
		domain.FieldFrequency: stringField(func(d *domain.BookingDraft) *string { return &d.Frequency }),
	},
	domain.StepCoach: {
		domain.FieldCoachID:         stringField(func(d *domain.BookingDraft) *string { return &d.Coach.ID }),
		domain.FieldCoachName:       stringField(func(d *domain.BookingDraft) *string { return &d.Coach.Name }),
		domain.FieldPricePerSession: priceField(func(d *domain.BookingDraft) **float64 { return &d.Coach.PricePerSession }),
		domain.FieldAddOns:          stringListField(func(d *domain.BookingDraft) *[]string { return &d.AddOns }),
	},
	domain.StepPlayer: {
		domain.FieldPlayerName: stringField(func(d *domain.BookingDraft) *string { return &d.Player.Name }),
		domain.FieldPlayerAge:  intField(func(d *domain.BookingDraft) *int { return &d.Player.Age }),
		domain.FieldNotes:      stringField(func(d *domain.BookingDraft) *string { return &d.Player.Notes }),
	},
	domain.StepPayment: {
		domain.FieldCardNumber:  stringField(func(d *domain.BookingDraft) *string { return &d.Payment.CardNumber }),
		domain.FieldExpiry:      stringField(func(d *domain.BookingDraft) *string { return &d.Payment.Expiry }),
		domain.FieldCVV:         stringField(func(d *domain.BookingDraft) *string { return &d.Payment.CVV }),
		domain.FieldZIP:         stringField(func(d *domain.BookingDraft) *string { return &d.Payment.ZIP }),
		domain.FieldAcceptTerms: boolField(func(d *domain.BookingDraft) *bool { return &d.Payment.AcceptTerms }),
	},
}

func lookup(step domain.StepID, name string) (field, error) {
	fields, ok := registry[step]
	if !ok {
		return field{}, fmt.Errorf("%w: step %q", ErrUnknownField, step)
	}
	f, ok := fields[name]
	if !ok {
		return field{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, step, name)
	}
	return f, nil
}

func stringField(at func(d *domain.BookingDraft) *string) field {
	return field{
		get: func(d *domain.BookingDraft) interface{} { return *at(d) },
		set: func(d *domain.BookingDraft, value interface{}) error {
			switch v := value.(type) {
			case string:
				*at(d) = v
			case nil:
				*at(d) = ""
			default:
				return fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, value)
			}
			return nil
		},
	}
}

func boolField(at func(d *domain.BookingDraft) *bool) field {
	return field{
		get: func(d *domain.BookingDraft) interface{} { return *at(d) },
		set: func(d *domain.BookingDraft, value interface{}) error {
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, value)
			}
			*at(d) = v
			return nil
		},
	}
}

// intField принимает int и целые float64 (так приходят числа из JSON)
func intField(at func(d *domain.BookingDraft) *int) field {
	return field{
		get: func(d *domain.BookingDraft) interface{} { return *at(d) },
		set: func(d *domain.BookingDraft, value interface{}) error {
			switch v := value.(type) {
			case int:
				*at(d) = v
			case float64:
				if v != math.Trunc(v) {
					return fmt.Errorf("%w: expected integer, got %v", ErrInvalidValue, v)
				}
				*at(d) = int(v)
			default:
				return fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, value)
			}
			return nil
		},
	}
}

// priceField nil сбрасывает цену (тогда применяется тариф по умолчанию)
func priceField(at func(d *domain.BookingDraft) **float64) field {
	return field{
		get: func(d *domain.BookingDraft) interface{} {
			if p := *at(d); p != nil {
				return *p
			}
			return nil
		},
		set: func(d *domain.BookingDraft, value interface{}) error {
			switch v := value.(type) {
			case nil:
				*at(d) = nil
			case float64:
				*at(d) = &v
			case int:
				f := float64(v)
				*at(d) = &f
			default:
				return fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, value)
			}
			return nil
		},
	}
}

func stringListField(at func(d *domain.BookingDraft) *[]string) field {
	return field{
		get: func(d *domain.BookingDraft) interface{} {
			return append([]string(nil), *at(d)...)
		},
		set: func(d *domain.BookingDraft, value interface{}) error {
			switch v := value.(type) {
			case nil:
				*at(d) = nil
			case []string:
				*at(d) = append([]string(nil), v...)
			case []interface{}:
				list := make([]string, 0, len(v))
				for _, item := range v {
					s, ok := item.(string)
					if !ok {
						return fmt.Errorf("%w: expected list of strings, got %T item", ErrInvalidValue, item)
					}
					list = append(list, s)
				}
				*at(d) = list
			default:
				return fmt.Errorf("%w: expected list of strings, got %T", ErrInvalidValue, value)
			}
			return nil
		},
	}
}
