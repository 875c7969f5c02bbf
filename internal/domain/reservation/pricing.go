package reservation

import (
	"errors"
	"time"
)

var ErrPriceMismatch = errors.New("price does not match the quoted amount")

const DefaultBaseFeeCents int64 = 10000

type PriceCalculator interface {
	Quote(hourlyRate Money, window TimeWindow) Money
}

// TieredPriceCalculator charges BaseFee for the first hour and the spot's
// hourly rate for every further started hour.
type TieredPriceCalculator struct {
	BaseFee Money
}

func NewTieredPriceCalculator(baseFeeCents int64) *TieredPriceCalculator {
	if baseFeeCents < 0 {
		baseFeeCents = DefaultBaseFeeCents
	}
	return &TieredPriceCalculator{BaseFee: Money{cents: baseFeeCents}}
}

func (pc *TieredPriceCalculator) Quote(hourlyRate Money, window TimeWindow) Money {
	hours := billableHours(window.Duration())
	return pc.BaseFee.Add(hourlyRate.Times(hours - 1))
}

func billableHours(d time.Duration) int64 {
	hours := int64((d + time.Hour - 1) / time.Hour)
	if hours < 1 {
		return 1
	}
	return hours
}

// CheckQuotedPrice accepts a nil client price; otherwise it must equal the quote.
func CheckQuotedPrice(quote Money, clientCents *int64) error {
	if clientCents == nil {
		return nil
	}
	if *clientCents != quote.Cents() {
		return ErrPriceMismatch
	}
	return nil
}
