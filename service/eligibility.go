package service

import (
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/telefiles/gatekeeper/model"
)

// GetOrCreateEligibility returns the eligibility record for the pair,
// creating an unverified one with the given policy defaults on first access.
func GetOrCreateEligibility(subject string, resource string, defaultPeriodHours int64, defaultLimit int) (rec model.Eligibility, err error) {
	err = storeUpdate(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketEligibility))
		if err != nil {
			return err
		}
		key := model.EligibilityKey(subject, resource)
		if b := bkt.Get(key); b != nil {
			return jsoniter.Unmarshal(b, &rec)
		}
		rec = model.Eligibility{
			Subject:     subject,
			Resource:    resource,
			PeriodHours: defaultPeriodHours,
			AccessLimit: defaultLimit,
		}
		b, err := jsoniter.Marshal(&rec)
		if err != nil {
			return err
		}
		return bkt.Put(key, b)
	})
	return rec, err
}

// RecordVerification resets the pair's quota and snapshots the policy in
// force at verification time. The snapshot governs until the next
// verification even if the configured policy changes in between.
func RecordVerification(subject string, resource string, periodHours int64, limit int) error {
	return storeUpdate(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketEligibility))
		if err != nil {
			return err
		}
		key := model.EligibilityKey(subject, resource)
		var rec model.Eligibility
		if b := bkt.Get(key); b != nil {
			if err := jsoniter.Unmarshal(b, &rec); err != nil {
				return err
			}
		}
		rec.Subject = subject
		rec.Resource = resource
		rec.LastVerifiedAt = time.Now()
		rec.PeriodHours = periodHours
		rec.AccessLimit = limit
		rec.AccessCount = 0
		b, err := jsoniter.Marshal(&rec)
		if err != nil {
			return err
		}
		return bkt.Put(key, b)
	})
}

// TryConsume atomically checks staleness and quota and takes one unit. The
// check and the increment share one write transaction, so concurrent callers
// cannot both take the last unit. Staleness and quota are independent gates:
// either alone denies.
func TryConsume(subject string, resource string) error {
	return storeUpdate(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketEligibility))
		if err != nil {
			return err
		}
		key := model.EligibilityKey(subject, resource)
		b := bkt.Get(key)
		if b == nil {
			return model.ErrNeedsReverification
		}
		var rec model.Eligibility
		if err := jsoniter.Unmarshal(b, &rec); err != nil {
			return err
		}
		if rec.Stale(time.Now()) {
			return model.ErrNeedsReverification
		}
		if rec.Exhausted() {
			return model.ErrQuotaExceeded
		}
		rec.AccessCount++
		b, err = jsoniter.Marshal(&rec)
		if err != nil {
			return err
		}
		return bkt.Put(key, b)
	})
}
