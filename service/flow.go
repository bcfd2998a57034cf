package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/telefiles/gatekeeper/model"
	"github.com/telefiles/gatekeeper/pkg/log"
)

// AccessDecision is the outcome of RequestAccess: either an immediate grant
// carrying a serialized token, or a redirect into the verification flow.
type AccessDecision struct {
	Granted     bool
	Token       string
	RedirectURL string
}

// RequestAccess decides whether the pair may fetch right away. A fresh
// record with quota left yields a token scoped to the rest of the current
// verification period; otherwise a challenge is issued (or the pending one
// re-returned, so retries during the window are idempotent).
func RequestAccess(subject string, resource string) (AccessDecision, error) {
	rec, err := GetOrCreateEligibility(subject, resource, opts.PeriodHours, opts.AccessLimit)
	if err != nil {
		return AccessDecision{}, err
	}
	now := time.Now()
	if !rec.Stale(now) && !rec.Exhausted() {
		ttl := rec.LastVerifiedAt.Add(time.Duration(rec.PeriodHours) * time.Hour).Sub(now)
		tok, err := codec.Issue(subject, resource, ttl, rec.AccessLimit-rec.AccessCount)
		if err != nil {
			return AccessDecision{}, err
		}
		enc, err := codec.Encode(tok)
		if err != nil {
			return AccessDecision{}, err
		}
		return AccessDecision{Granted: true, Token: enc}, nil
	}
	if pending, err := FindPendingChallenge(subject, resource); err != nil {
		return AccessDecision{}, err
	} else if pending != nil {
		return AccessDecision{RedirectURL: pending.RedirectTarget}, nil
	}
	id, err := gonanoid.New()
	if err != nil {
		return AccessDecision{}, err
	}
	// The shortlink call happens before the challenge is stored, so no store
	// lock is ever held across network I/O.
	callback := fmt.Sprintf("%v/redirect?challenge=%v",
		strings.TrimRight(opts.CallbackBase, "/"), url.QueryEscape(id))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	short, err := opts.Shortener.Shorten(ctx, callback)
	if err != nil {
		log.Warn("challenge setup: subject %v resource %v: %v", subject, resource, err)
		return AccessDecision{}, fmt.Errorf("%w: %v", model.ErrChallengeSetupFailed, err)
	}
	ch, err := NewChallenge(id, subject, resource, short, opts.ChallengeTimeout)
	if err != nil {
		return AccessDecision{}, err
	}
	log.Info("challenge %v issued: subject %v resource %v", ch.ID, subject, resource)
	return AccessDecision{RedirectURL: ch.RedirectTarget}, nil
}

// CompleteChallenge turns a completed out-of-band hop into a fresh token.
// The subject must have passed the shortlink landing first; a challenge still
// waiting for arrival cannot be completed. Expiry and eviction both end the
// attempt and look identical to the caller, who restarts from RequestAccess.
func CompleteChallenge(id string) (token string, err error) {
	ch, err := GetChallenge(id)
	if err != nil {
		if errors.Is(err, model.ErrChallengeNotFound) {
			return "", model.ErrChallengeExpired
		}
		return "", err
	}
	if ch.Expired(time.Now()) {
		_ = discardChallenge(id)
		return "", model.ErrChallengeExpired
	}
	if ch.Progress == model.ChallengeDone {
		return "", model.ErrChallengeExpired
	}
	if ch.Progress != model.ChallengeArrived {
		log.Warn("challenge %v: completion without the shortlink hop: subject %v resource %v", id, ch.Subject, ch.Resource)
		return "", model.ErrChallengeIncomplete
	}
	if err := RecordVerification(ch.Subject, ch.Resource, opts.PeriodHours, opts.AccessLimit); err != nil {
		return "", err
	}
	tok, err := codec.Issue(ch.Subject, ch.Resource, time.Duration(opts.PeriodHours)*time.Hour, opts.AccessLimit)
	if err != nil {
		return "", err
	}
	enc, err := codec.Encode(tok)
	if err != nil {
		return "", err
	}
	if err := discardChallenge(id); err != nil {
		return "", err
	}
	log.Info("challenge %v completed: subject %v resource %v", id, ch.Subject, ch.Resource)
	return enc, nil
}
