// Package vtoken encodes, decodes and authenticates the opaque verification
// tokens handed to subjects after a completed verification flow. The codec
// only proves authenticity and carries the policy-relevant fields; it knows
// nothing about quotas or verification periods.
package vtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/eknkc/basex"
	jsoniter "github.com/json-iterator/go"
	gonanoid "github.com/matoous/go-nanoid"
	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/model"
)

const (
	// Version tags the serialized layout. Unknown versions always fail
	// decoding; there is no silent misparse path for old tokens.
	Version byte = 1

	NonceLength = 21

	// MinSecretLength is the entropy floor for the process-wide signing key.
	MinSecretLength = 32

	sigLength = sha256.Size
)

var encoding *basex.Encoding

func init() {
	var err error
	encoding, err = basex.NewEncoding(common.Alphabet)
	if err != nil {
		panic(err)
	}
}

// Token is the decoded form of a verification token. All fields are covered
// by the signature; UsesRemaining is additionally tracked client-side for
// display, the authoritative count lives in the eligibility store.
type Token struct {
	Subject       string
	Resource      string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	MaxUses       int
	UsesRemaining int
	Nonce         string
}

// IsLive is a pure check against the token's own fields. No store access.
func (t *Token) IsLive(now time.Time) bool {
	return now.Before(t.ExpiresAt) && t.UsesRemaining > 0
}

// payload is the wire layout. Field order is fixed by the struct; times are
// carried as unix milliseconds so serialization round-trips exactly.
type payload struct {
	Subject       string `json:"s"`
	Resource      string `json:"r"`
	IssuedAt      int64  `json:"ia"`
	ExpiresAt     int64  `json:"ea"`
	MaxUses       int    `json:"mu"`
	UsesRemaining int    `json:"ur"`
	Nonce         string `json:"n"`
}

type Codec struct {
	secret []byte
}

// NewCodec validates the process-wide secret and returns a codec bound to it.
// The secret is loaded once at startup; a missing or short key is a fatal
// configuration error, not a per-request failure.
func NewCodec(secret string) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: secret key must be at least %v bytes", model.ErrConfig, MinSecretLength)
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Issue mints a fresh token for the (subject, resource) pair.
func (c *Codec) Issue(subject string, resource string, ttl time.Duration, maxUses int) (*Token, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive")
	}
	if maxUses <= 0 {
		return nil, fmt.Errorf("maxUses must be positive")
	}
	nonce, err := gonanoid.Generate(common.Alphabet, NonceLength)
	if err != nil {
		return nil, err
	}
	// millisecond precision so issued tokens round-trip the wire format
	now := time.Now().Truncate(time.Millisecond)
	return &Token{
		Subject:       subject,
		Resource:      resource,
		IssuedAt:      now,
		ExpiresAt:     now.Add(ttl),
		MaxUses:       maxUses,
		UsesRemaining: maxUses,
		Nonce:         nonce,
	}, nil
}

// Encode serializes the token as version || payload || signature, base-62
// encoded for transport.
func (c *Codec) Encode(t *Token) (string, error) {
	b, err := jsoniter.Marshal(payload{
		Subject:       t.Subject,
		Resource:      t.Resource,
		IssuedAt:      t.IssuedAt.UnixMilli(),
		ExpiresAt:     t.ExpiresAt.UnixMilli(),
		MaxUses:       t.MaxUses,
		UsesRemaining: t.UsesRemaining,
		Nonce:         t.Nonce,
	})
	if err != nil {
		return "", err
	}
	blob := make([]byte, 0, 1+len(b)+sigLength)
	blob = append(blob, Version)
	blob = append(blob, b...)
	blob = append(blob, c.sign(blob)...)
	return encoding.Encode(blob), nil
}

// Decode deserializes and authenticates a token. The signature is verified
// in constant time before any claimed field is trusted; every failure mode
// collapses to ErrInvalidToken so a forged token is indistinguishable from
// noise.
func (c *Codec) Decode(serialized string) (*Token, error) {
	blob, err := encoding.Decode(serialized)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	if len(blob) < 1+sigLength {
		return nil, model.ErrInvalidToken
	}
	if blob[0] != Version {
		return nil, model.ErrInvalidToken
	}
	signed, sig := blob[:len(blob)-sigLength], blob[len(blob)-sigLength:]
	if !hmac.Equal(sig, c.sign(signed)) {
		return nil, model.ErrInvalidToken
	}
	var p payload
	if err := jsoniter.Unmarshal(signed[1:], &p); err != nil {
		return nil, model.ErrInvalidToken
	}
	t := Token{
		Subject:       p.Subject,
		Resource:      p.Resource,
		IssuedAt:      time.UnixMilli(p.IssuedAt),
		ExpiresAt:     time.UnixMilli(p.ExpiresAt),
		MaxUses:       p.MaxUses,
		UsesRemaining: p.UsesRemaining,
		Nonce:         p.Nonce,
	}
	if !t.ExpiresAt.After(t.IssuedAt) || t.UsesRemaining > t.MaxUses {
		return nil, model.ErrInvalidToken
	}
	return &t, nil
}

func (c *Codec) sign(b []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(b)
	return mac.Sum(nil)
}
