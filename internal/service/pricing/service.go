package pricing

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
)

// Config параметры расчета стоимости
type Config struct {
	DefaultSessionPrice float64
	SetupFee            float64
	TaxRate             float64
	Currency            string
}

// DefaultConfig значения по умолчанию платформы
func DefaultConfig() Config {
	return Config{
		DefaultSessionPrice: domain.DefaultSessionPrice,
		SetupFee:            domain.DefaultSetupFee,
		TaxRate:             domain.DefaultTaxRate,
		Currency:            domain.DefaultCurrency,
	}
}

// Service калькулятор стоимости бронирования
type Service struct {
	cfg     Config
	catalog map[string]domain.AddOn
	logger  Logger
}

// NewService создает калькулятор с каталогом дополнительных опций domain.AddOnCatalog
func NewService(cfg Config, logger Logger) *Service {
	return &Service{
		cfg:     cfg,
		catalog: domain.AddOnCatalog,
		logger:  logger,
	}
}

// ComputeTotal рассчитывает стоимость для выбранного тренера и опций.
// Суммы считаются в минимальных единицах валюты, налог округляется до цента.
// Отрицательные составляющие обнуляются, а в Warnings добавляется предупреждение.
// Неизвестные коды опций пропускаются.
func (s *Service) ComputeTotal(coach domain.Coach, addOnCodes []string) domain.PricingBreakdown {
	var warnings []string

	rate := s.cfg.DefaultSessionPrice
	if coach.PricePerSession != nil {
		rate = *coach.PricePerSession
	}
	sessionMinor := domain.ToMinor(clamp("coach rate", rate, &warnings))

	addOns := make([]domain.AddOn, 0, len(addOnCodes))
	for _, code := range addOnCodes {
		addOn, ok := s.catalog[code]
		if !ok {
			s.logger.Warn("ComputeTotal: unknown add-on code=%s, skipped", code)
			continue
		}
		addOn.Price = clamp("add-on "+code, addOn.Price, &warnings)
		addOns = append(addOns, addOn)
		sessionMinor += domain.ToMinor(addOn.Price)
	}

	setupMinor := domain.ToMinor(clamp("setup fee", s.cfg.SetupFee, &warnings))
	taxRate := clamp("tax rate", s.cfg.TaxRate, &warnings)
	taxMinor := taxOf(sessionMinor+setupMinor, taxRate)

	for _, w := range warnings {
		s.logger.Warn("ComputeTotal: coach=%s: %s", coach.ID, w)
	}

	breakdown := domain.NewPricingBreakdown(sessionMinor, setupMinor, taxMinor, taxRate, s.cfg.Currency)
	breakdown.AddOns = addOns
	breakdown.Warnings = warnings
	return breakdown
}

// taxOf налог с суммы в минимальных единицах; ставка переводится в базисные пункты,
// округление половины вверх
func taxOf(baseMinor int64, rate float64) int64 {
	rateBP := int64(math.Round(rate * 10000))
	return (baseMinor*rateBP + 5000) / 10000
}

// Currency валюта, в которой считаются цены
func (s *Service) Currency() string {
	return s.cfg.Currency
}

func clamp(name string, v float64, warnings *[]string) float64 {
	if v < 0 {
		*warnings = append(*warnings, fmt.Sprintf("%s %.2f is negative, clamped to 0", name, v))
		return 0
	}
	return v
}
