package vtoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func TestNewCodecRejectsWeakSecret(t *testing.T) {
	for _, secret := range []string{"", "short", strings.Repeat("x", MinSecretLength-1)} {
		if _, err := NewCodec(secret); !errors.Is(err, model.ErrConfig) {
			t.Fatalf("secret %q: expected config error, got %v", secret, err)
		}
	}
	if _, err := NewCodec(strings.Repeat("x", MinSecretLength)); err != nil {
		t.Fatalf("minimum-length secret rejected: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Issue("subject-1", "resource-1", 10*time.Minute, 3)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.UsesRemaining != tok.MaxUses {
		t.Fatalf("fresh token: UsesRemaining %v != MaxUses %v", tok.UsesRemaining, tok.MaxUses)
	}
	if !tok.ExpiresAt.After(tok.IssuedAt) {
		t.Fatalf("ExpiresAt %v not after IssuedAt %v", tok.ExpiresAt, tok.IssuedAt)
	}
	enc, err := c.Encode(tok)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := c.Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Subject != tok.Subject || got.Resource != tok.Resource ||
		got.MaxUses != tok.MaxUses || got.UsesRemaining != tok.UsesRemaining ||
		got.Nonce != tok.Nonce {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, tok)
	}
	if !got.IssuedAt.Equal(tok.IssuedAt) || !got.ExpiresAt.Equal(tok.ExpiresAt) {
		t.Fatalf("time round trip mismatch: got %v/%v want %v/%v",
			got.IssuedAt, got.ExpiresAt, tok.IssuedAt, tok.ExpiresAt)
	}
}

func TestTamperedTokenFailsDecode(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Issue("subject-1", "resource-1", 10*time.Minute, 3)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	enc, err := c.Encode(tok)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// substituting any single character must break the signature
	for i := 0; i < len(enc); i++ {
		replacement := common.Alphabet[0]
		if enc[i] == replacement {
			replacement = common.Alphabet[1]
		}
		mutated := enc[:i] + string(replacement) + enc[i+1:]
		if _, err := c.Decode(mutated); !errors.Is(err, model.ErrInvalidToken) {
			t.Fatalf("position %v: expected ErrInvalidToken, got %v", i, err)
		}
	}
}

func TestDecodeGarbage(t *testing.T) {
	c := newTestCodec(t)
	for _, s := range []string{"", "x", "not base62 at all!!", strings.Repeat("A", 200)} {
		if _, err := c.Decode(s); !errors.Is(err, model.ErrInvalidToken) {
			t.Fatalf("input %q: expected ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	c := newTestCodec(t)
	tok, err := c.Issue("subject-1", "resource-1", 10*time.Minute, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	enc, err := c.Encode(tok)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	blob, err := encoding.Decode(enc)
	if err != nil {
		t.Fatalf("decode blob: %v", err)
	}
	blob[0] = Version + 1
	// re-sign so only the version tag is at fault
	signed := blob[:len(blob)-sigLength]
	forged := append(append([]byte{}, signed...), c.sign(signed)...)
	if _, err := c.Decode(encoding.Encode(forged)); !errors.Is(err, model.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown version, got %v", err)
	}
}

func TestDecodeWrongKey(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec(strings.Repeat("y", MinSecretLength))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	tok, err := c.Issue("subject-1", "resource-1", 10*time.Minute, 3)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	enc, err := c.Encode(tok)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := other.Decode(enc); !errors.Is(err, model.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken with other key, got %v", err)
	}
}

func TestIsLive(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		tok  Token
		want bool
	}{
		{"live", Token{ExpiresAt: now.Add(time.Minute), UsesRemaining: 1}, true},
		{"expired", Token{ExpiresAt: now.Add(-time.Minute), UsesRemaining: 5}, false},
		{"exhausted", Token{ExpiresAt: now.Add(time.Minute), UsesRemaining: 0}, false},
		{"expired and exhausted", Token{ExpiresAt: now.Add(-time.Minute), UsesRemaining: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.tok.IsLive(now); got != tt.want {
			t.Fatalf("%v: IsLive = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIssueRejectsBadArguments(t *testing.T) {
	c := newTestCodec(t)
	if _, err := c.Issue("s", "r", 0, 1); err == nil {
		t.Fatal("expected error for zero ttl")
	}
	if _, err := c.Issue("s", "r", time.Minute, 0); err == nil {
		t.Fatal("expected error for zero maxUses")
	}
}
