package service

import (
	"errors"
	"time"

	"github.com/telefiles/gatekeeper/model"
	"github.com/telefiles/gatekeeper/pkg/log"
	"github.com/telefiles/gatekeeper/pkg/vtoken"
)

// GateDecision is the outcome of Authorize. Token is only set on Allow and
// carries the display-only remaining-use counter; the eligibility store
// holds the authoritative count.
type GateDecision struct {
	Allowed bool
	Reason  model.DenyReason
	Token   *vtoken.Token
}

// Authorize validates an incoming token against policy before a file is
// released. Checks run in order and short-circuit: signature, binding,
// liveness, then the store consumption. A store failure is returned as an
// error, never as a deny.
func Authorize(serialized string, subject string, resource string) (GateDecision, error) {
	tok, err := codec.Decode(serialized)
	if err != nil {
		return deny(model.DenyInvalidToken, subject, resource), nil
	}
	if tok.Subject != subject || tok.Resource != resource {
		return deny(model.DenyMismatch, subject, resource), nil
	}
	if !tok.IsLive(time.Now()) {
		return deny(model.DenyExpired, subject, resource), nil
	}
	if err := TryConsume(subject, resource); err != nil {
		switch {
		case errors.Is(err, model.ErrQuotaExceeded):
			return deny(model.DenyQuotaExceeded, subject, resource), nil
		case errors.Is(err, model.ErrNeedsReverification):
			return deny(model.DenyNeedsReverification, subject, resource), nil
		default:
			return GateDecision{}, err
		}
	}
	tok.UsesRemaining--
	recordAccess(model.AccessEvent{
		Subject:  subject,
		Resource: resource,
		Allowed:  true,
		At:       time.Now(),
	})
	return GateDecision{Allowed: true, Token: tok}, nil
}

func deny(reason model.DenyReason, subject string, resource string) GateDecision {
	log.Warn("authorize deny: %v: subject %v resource %v", reason, subject, resource)
	recordAccess(model.AccessEvent{
		Subject:  subject,
		Resource: resource,
		Reason:   reason,
		At:       time.Now(),
	})
	return GateDecision{Reason: reason}
}
