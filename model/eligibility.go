package model

import "time"

const BucketEligibility = "eligibility"

// Eligibility is the durable per (subject, resource) counter governing quota
// and re-verification cadence. PeriodHours and AccessLimit are the policy
// snapshot taken at the last verification; policy changes only apply from the
// next verification on.
type Eligibility struct {
	Subject        string
	Resource       string
	LastVerifiedAt time.Time
	PeriodHours    int64
	AccessLimit    int
	AccessCount    int
}

// Stale reports whether the record requires a fresh verification flow. A
// record that has never been verified is stale.
func (e *Eligibility) Stale(now time.Time) bool {
	if e.LastVerifiedAt.IsZero() {
		return true
	}
	return now.Sub(e.LastVerifiedAt) > time.Duration(e.PeriodHours)*time.Hour
}

func (e *Eligibility) Exhausted() bool {
	return e.AccessCount >= e.AccessLimit
}

func EligibilityKey(subject string, resource string) []byte {
	return []byte(subject + "/" + resource)
}
