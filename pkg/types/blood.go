package types

import (
	"slices"
	"time"
)

var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

func IsBloodType(v string) bool {
	return slices.Contains(BloodTypes, v)
}

type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
	UrgencyLow      Urgency = "Low"
)

var UrgencyLevels = []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}

func (u Urgency) Valid() bool {
	return slices.Contains(UrgencyLevels, u)
}

// InstantLayout renders instants the way browsers serialize dates,
// e.g. 2000-01-01T00:00:00.000Z.
const InstantLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

func ParseInstant(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}
