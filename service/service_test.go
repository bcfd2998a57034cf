package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/telefiles/gatekeeper/db"
	"github.com/telefiles/gatekeeper/model"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "gatekeeper-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db.InitDB(dir)
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type fakeShortener struct {
	fail  bool
	calls int64
}

func (f *fakeShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	n := atomic.AddInt64(&f.calls, 1)
	if f.fail {
		return "", fmt.Errorf("provider down")
	}
	// distinct per call, so idempotency failures show up as distinct URLs
	return fmt.Sprintf("https://sl.example/%v", n), nil
}

func testSetup(t *testing.T, mutate func(o *Options)) {
	t.Helper()
	o := Options{
		Secret:           strings.Repeat("k", 32),
		AccessLimit:      3,
		PeriodHours:      24,
		ChallengeTimeout: 600 * time.Second,
		CallbackBase:     "https://gate.example.org",
		BotUsername:      "filegatebot",
		Shortener:        &fakeShortener{},
	}
	if mutate != nil {
		mutate(&o)
	}
	if err := Setup(o); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func newPair(t *testing.T) (subject string, resource string) {
	t.Helper()
	s, err := gonanoid.New()
	if err != nil {
		t.Fatalf("nanoid: %v", err)
	}
	r, err := gonanoid.New()
	if err != nil {
		t.Fatalf("nanoid: %v", err)
	}
	return "subject-" + s, "resource-" + r
}

// backdateVerification rewrites the record's LastVerifiedAt, simulating the
// passage of time.
func backdateVerification(t *testing.T, subject string, resource string, age time.Duration) {
	t.Helper()
	if err := db.DB().Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketEligibility))
		if bkt == nil {
			return fmt.Errorf("bucket missing")
		}
		key := model.EligibilityKey(subject, resource)
		b := bkt.Get(key)
		if b == nil {
			return fmt.Errorf("record missing")
		}
		var rec model.Eligibility
		if err := jsoniter.Unmarshal(b, &rec); err != nil {
			return err
		}
		rec.LastVerifiedAt = time.Now().Add(-age)
		b, err := jsoniter.Marshal(&rec)
		if err != nil {
			return err
		}
		return bkt.Put(key, b)
	}); err != nil {
		t.Fatalf("backdate: %v", err)
	}
}
