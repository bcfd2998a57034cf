package model

import "time"

const BucketChallenge = "challenge"

type ChallengeProgress int

const (
	// ChallengeWaiting: redirect issued, the subject has not hit the landing yet.
	ChallengeWaiting ChallengeProgress = iota
	// ChallengeArrived: the subject came back through the shortlink.
	ChallengeArrived
	// ChallengeDone: completion consumed, kept only until the record is discarded.
	ChallengeDone
)

// Challenge is the transient record of an in-progress verification attempt.
// It exists only between "redirect issued" and "callback received or
// expired"; the background sweeper and lazy expiry checks both bound its
// lifetime.
type Challenge struct {
	ID             string
	Subject        string
	Resource       string
	CreatedAt      time.Time
	ExpireAt       time.Time
	RedirectTarget string
	Progress       ChallengeProgress
}

func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpireAt)
}
