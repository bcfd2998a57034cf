package model

import "fmt"

var (
	ErrConfig               = fmt.Errorf("configuration error")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrExpired              = fmt.Errorf("token expired")
	ErrQuotaExceeded        = fmt.Errorf("access quota exceeded")
	ErrNeedsReverification  = fmt.Errorf("verification period elapsed")
	ErrChallengeExpired     = fmt.Errorf("challenge expired")
	ErrChallengeIncomplete  = fmt.Errorf("verification link not followed")
	ErrChallengeNotFound    = fmt.Errorf("challenge not found")
	ErrChallengeSetupFailed = fmt.Errorf("cannot set up challenge")
	ErrStoreUnavailable     = fmt.Errorf("store unavailable")
)

type DenyReason string

const (
	DenyInvalidToken        DenyReason = "InvalidToken"
	DenyMismatch            DenyReason = "Mismatch"
	DenyExpired             DenyReason = "Expired"
	DenyQuotaExceeded       DenyReason = "QuotaExceeded"
	DenyNeedsReverification DenyReason = "NeedsReverification"
)
