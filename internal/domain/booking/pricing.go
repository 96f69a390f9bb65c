package booking

import (
	"time"

	"rentyard/internal/domain/listing"
)

// Billing periods per price unit. A month is billed as 30 days.
const (
	hourlyPeriod  = time.Hour
	dailyPeriod   = 24 * time.Hour
	weeklyPeriod  = 7 * 24 * time.Hour
	monthlyPeriod = 30 * 24 * time.Hour
)

// ComputeTotal prices a range against a listing's unit price. Fixed-price
// listings cost their price regardless of duration; everything else is
// ceil(duration / period) * unit price with a floor of one unit, so a
// one-hour rental of a daily listing still bills a full day.
func ComputeTotal(unitPriceCents int64, unit listing.PriceUnit, r DateRange) (Money, error) {
	if unit == listing.PriceFixed {
		return NewMoney(unitPriceCents)
	}

	period := billingPeriod(unit)
	units := int64((r.Duration() + period - 1) / period)
	if units < 1 {
		units = 1
	}
	return NewMoney(units * unitPriceCents)
}

func billingPeriod(unit listing.PriceUnit) time.Duration {
	switch unit {
	case listing.PriceHourly:
		return hourlyPeriod
	case listing.PriceWeekly:
		return weeklyPeriod
	case listing.PriceMonthly:
		return monthlyPeriod
	default:
		return dailyPeriod
	}
}
