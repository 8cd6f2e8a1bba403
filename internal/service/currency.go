package service

import (
	"strings"

	gigerr "github.com/amterp/gig/internal/errors"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// SetCurrency changes the ISO 4217 currency used by FormatCurrency.
func (s *DataStore) SetCurrency(code string) error {
	unit, err := parseCurrency(code)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = unit
	return nil
}

// Currency returns the active currency code.
func (s *DataStore) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency.String()
}

// FormatCurrency renders an amount in the active currency.
func (s *DataStore) FormatCurrency(value float64) string {
	s.mu.RLock()
	unit := s.currency
	s.mu.RUnlock()
	return FormatAmount(unit, value)
}

// FormatAmount renders an amount with the currency's symbol.
func FormatAmount(unit currency.Unit, value float64) string {
	return printer.Sprint(currency.Symbol(unit.Amount(value)))
}

func parseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, gigerr.InvalidField("currency", "unknown ISO 4217 code "+code)
	}
	return unit, nil
}
