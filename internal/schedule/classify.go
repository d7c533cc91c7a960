package schedule

import (
	"fmt"
	"time"
)

// Tier represents the urgency tier of a deadline
type Tier int

const (
	TierNormal Tier = iota
	TierWarning
	TierCritical
	TierExpired
)

// String returns the string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierWarning:
		return "warning"
	case TierCritical:
		return "critical"
	case TierExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Classification is the urgency tier of a deadline together with its
// display label.
type Classification struct {
	Tier  Tier
	Label string
}

// Classify computes the urgency of a deadline relative to now.
//
// The checks run in urgency order and the first match wins: the 48-hour
// window is tested before the 7-day window, so a deadline 1 day 23 hours
// away is CRITICAL even though it is also under 7 days. Day counts are
// whole 24-hour periods of the remaining duration. Exactly 48 hours
// remaining is not inside the 48-hour window and classifies as WARNING.
func Classify(deadline, now time.Time) Classification {
	if deadline.Before(now) {
		return Classification{Tier: TierExpired, Label: "expired"}
	}

	remaining := deadline.Sub(now)
	days := int(remaining / (24 * time.Hour))

	if remaining < 48*time.Hour {
		if days == 0 {
			hours := int(remaining / time.Hour)
			if hours > 0 {
				return Classification{Tier: TierCritical, Label: hourLabel(hours)}
			}
			return Classification{Tier: TierCritical, Label: "imminent"}
		}
		// Under 48 hours but past a full day: always "1 day left".
		return Classification{Tier: TierCritical, Label: "1 day left"}
	}

	if days < 7 {
		return Classification{Tier: TierWarning, Label: dayLabel(days)}
	}

	return Classification{Tier: TierNormal, Label: dayLabel(days)}
}

func hourLabel(hours int) string {
	if hours == 1 {
		return "1 hour left"
	}
	return fmt.Sprintf("%d hours left", hours)
}

func dayLabel(days int) string {
	if days == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", days)
}
