// Package leave computes pro-rata statutory leave entitlements.
// All functions are pure; inputs are clamped, never rejected.
package leave

import (
	"math"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
)

// Statutory entitlement constants for a full leave cycle.
const (
	// AnnualLeaveDays is the full-cycle annual leave entitlement.
	AnnualLeaveDays = 15.0

	// FamilyResponsibilityDays is the full-cycle family responsibility
	// entitlement.
	FamilyResponsibilityDays = 3.0

	// SickLeaveDays is the sick leave entitlement. The full cycle
	// entitlement is available from day one; it is never pro-rated.
	SickLeaveDays = 30.0

	// MaternityMonths is the maternity entitlement; never pro-rated.
	MaternityMonths = 4

	// DefaultFullTimeHours is the full-time work week used for the
	// part-time multiplier when none is configured.
	DefaultFullTimeHours = 40.0

	// QualifyingMonthlyHours is the statutory threshold: workers
	// contracted for this many hours per month or fewer do not accrue
	// annual, sick, or family responsibility leave.
	QualifyingMonthlyHours = 24.0

	// DefaultYearStartMonth is the month the statutory leave year
	// begins when none is configured.
	DefaultYearStartMonth = time.March
)

// Params are the inputs to a leave entitlement calculation.
type Params struct {
	HireDate       time.Time
	Reference      time.Time // zero value means "now"
	PartTime       bool
	HoursPerWeek   float64
	FullTimeHours  float64    // zero value means DefaultFullTimeHours
	YearStartMonth time.Month // zero value means DefaultYearStartMonth
}

// Calculate computes pro-rata entitlements for the leave year containing
// the reference date.
func Calculate(p Params) domain.LeaveEntitlements {
	ref := p.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	startMonth := p.YearStartMonth
	if startMonth < time.January || startMonth > time.December {
		startMonth = DefaultYearStartMonth
	}

	yearStart, yearEnd := YearWindow(ref, startMonth)
	factor := ProRataFactor(p.HireDate, yearStart, yearEnd)
	multiplier := PartTimeMultiplier(p.PartTime, p.HoursPerWeek, p.FullTimeHours)

	return domain.LeaveEntitlements{
		AnnualDays:               CalculateAnnualLeave(factor, multiplier),
		SickDays:                 SickLeaveDays,
		FamilyResponsibilityDays: CalculateFamilyResponsibility(factor, multiplier),
		MaternityMonths:          MaternityMonths,
	}
}

// CalculateCasual returns entitlements for casual/low-hour workers below
// the statutory qualifying threshold: everything zeroed except maternity.
func CalculateCasual() domain.LeaveEntitlements {
	return domain.LeaveEntitlements{
		MaternityMonths: MaternityMonths,
	}
}

// BelowQualifyingThreshold reports whether contracted monthly hours fall
// at or below the statutory qualifying threshold.
func BelowQualifyingThreshold(hoursPerMonth float64) bool {
	return hoursPerMonth <= QualifyingMonthlyHours
}

// YearWindow returns the [start, end] of the leave year containing ref,
// for a leave year beginning on the first of startMonth. End is the last
// day of the twelfth month.
func YearWindow(ref time.Time, startMonth time.Month) (time.Time, time.Time) {
	year := ref.Year()
	if ref.Month() < startMonth {
		year--
	}
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(1, 0, -1)
	return start, end
}

// ProRataFactor returns the fraction of the leave year the hire date
// covers: 1 for hires on or before the year start, 0 for hires after the
// year end, otherwise calendar months remaining (inclusive of the hire
// month) over 12, rounded to 2 decimals.
func ProRataFactor(hireDate, yearStart, yearEnd time.Time) float64 {
	if !hireDate.After(yearStart) {
		return 1.0
	}
	if hireDate.After(yearEnd) {
		return 0.0
	}
	months := monthsRemaining(hireDate, yearEnd)
	return round2(float64(months) / 12.0)
}

// monthsRemaining counts calendar months from the hire month through the
// leave year's final month, inclusive.
func monthsRemaining(hireDate, yearEnd time.Time) int {
	months := (yearEnd.Year()-hireDate.Year())*12 + int(yearEnd.Month()) - int(hireDate.Month()) + 1
	if months < 0 {
		return 0
	}
	if months > 12 {
		return 12
	}
	return months
}

// PartTimeMultiplier scales entitlements by contracted weekly hours,
// capped at 1. Full-time staff always get 1.
func PartTimeMultiplier(partTime bool, hoursPerWeek, fullTimeHours float64) float64 {
	if !partTime {
		return 1.0
	}
	if fullTimeHours <= 0 {
		fullTimeHours = DefaultFullTimeHours
	}
	if hoursPerWeek < 0 {
		hoursPerWeek = 0
	}
	return math.Min(hoursPerWeek/fullTimeHours, 1.0)
}

// CalculateAnnualLeave returns the annual leave days for the given
// pro-rata factor and part-time multiplier, rounded to 1 decimal.
func CalculateAnnualLeave(proRataFactor, partTimeMultiplier float64) float64 {
	return round1(AnnualLeaveDays * proRataFactor * partTimeMultiplier)
}

// CalculateFamilyResponsibility returns the family responsibility days
// for the given pro-rata factor and part-time multiplier, rounded to
// 1 decimal.
func CalculateFamilyResponsibility(proRataFactor, partTimeMultiplier float64) float64 {
	return round1(FamilyResponsibilityDays * proRataFactor * partTimeMultiplier)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
