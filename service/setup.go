package service

import (
	"fmt"
	"time"

	"github.com/telefiles/gatekeeper/model"
	"github.com/telefiles/gatekeeper/pkg/vtoken"
)

// Options carries the policy snapshot and collaborators the gateway runs
// with. Everything here is loaded once at startup; services never read
// ambient configuration afterwards.
type Options struct {
	// Secret signs verification tokens. Fatal at startup when missing or
	// below vtoken.MinSecretLength.
	Secret string
	// AccessLimit and PeriodHours are the policy defaults snapshotted into
	// eligibility records at verification time.
	AccessLimit int
	PeriodHours int64
	// ChallengeTimeout bounds how long an issued challenge stays completable.
	ChallengeTimeout time.Duration
	// CallbackBase is the public base URL of this gateway, e.g.
	// "https://example.org". Challenge callbacks are built under it.
	CallbackBase string
	// BotUsername builds the deep link the countdown page redirects to.
	BotUsername string
	// Shortener wraps callback URLs through the shortlink provider.
	Shortener Shortener
}

var (
	opts  Options
	codec *vtoken.Codec
)

func Setup(o Options) error {
	c, err := vtoken.NewCodec(o.Secret)
	if err != nil {
		return err
	}
	if o.AccessLimit < 1 {
		return fmt.Errorf("%w: access limit must be at least 1", model.ErrConfig)
	}
	if o.PeriodHours < 1 {
		return fmt.Errorf("%w: verification period must be at least 1 hour", model.ErrConfig)
	}
	if o.ChallengeTimeout <= 0 {
		o.ChallengeTimeout = 600 * time.Second
	}
	codec = c
	opts = o
	return nil
}
