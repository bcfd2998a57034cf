package service

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/telefiles/gatekeeper/model"
)

// FindPendingChallenge returns the outstanding challenge for the pair, or
// nil. Expired entries are treated as absent; the sweeper removes them later.
func FindPendingChallenge(subject string, resource string) (found *model.Challenge, err error) {
	err = storeView(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketChallenge))
		if bkt == nil {
			return nil
		}
		now := time.Now()
		return bkt.ForEach(func(k, b []byte) error {
			var ch model.Challenge
			if err := jsoniter.Unmarshal(b, &ch); err != nil {
				// do not stop the iter
				return nil
			}
			if ch.Subject != subject || ch.Resource != resource {
				return nil
			}
			if ch.Expired(now) || ch.Progress == model.ChallengeDone {
				return nil
			}
			found = &ch
			return nil
		})
	})
	return found, err
}

// NewChallenge stores a challenge under the given id. A subject holds at most
// one outstanding challenge per resource: if one already exists by the time
// the write transaction runs, the existing challenge wins and is returned
// instead, so concurrent requests stay idempotent.
func NewChallenge(id string, subject string, resource string, redirectTarget string, timeout time.Duration) (ch model.Challenge, err error) {
	err = storeUpdate(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketChallenge))
		if err != nil {
			return err
		}
		now := time.Now()
		var existing *model.Challenge
		if err := bkt.ForEach(func(k, b []byte) error {
			var cur model.Challenge
			if err := jsoniter.Unmarshal(b, &cur); err != nil {
				return nil
			}
			if cur.Subject == subject && cur.Resource == resource &&
				!cur.Expired(now) && cur.Progress != model.ChallengeDone {
				existing = &cur
			}
			return nil
		}); err != nil {
			return err
		}
		if existing != nil {
			ch = *existing
			return nil
		}
		ch = model.Challenge{
			ID:             id,
			Subject:        subject,
			Resource:       resource,
			CreatedAt:      now,
			ExpireAt:       now.Add(timeout),
			RedirectTarget: redirectTarget,
			Progress:       model.ChallengeWaiting,
		}
		b, err := jsoniter.Marshal(&ch)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(id), b)
	})
	return ch, err
}

// GetChallenge looks a challenge up by id. Eviction and absence look the
// same: ErrChallengeNotFound.
func GetChallenge(id string) (*model.Challenge, error) {
	var ch model.Challenge
	err := storeView(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketChallenge))
		if bkt == nil {
			return model.ErrChallengeNotFound
		}
		b := bkt.Get([]byte(id))
		if b == nil {
			return model.ErrChallengeNotFound
		}
		return jsoniter.Unmarshal(b, &ch)
	})
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ChallengeArrived marks that the subject came back through the shortlink
// landing. Completed challenges cannot be re-entered.
func ChallengeArrived(id string) error {
	return storeUpdate(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketChallenge))
		if err != nil {
			return err
		}
		b := bkt.Get([]byte(id))
		if b == nil {
			return model.ErrChallengeNotFound
		}
		var ch model.Challenge
		if err := jsoniter.Unmarshal(b, &ch); err != nil {
			return err
		}
		if ch.Expired(time.Now()) {
			return model.ErrChallengeExpired
		}
		if ch.Progress == model.ChallengeDone {
			return fmt.Errorf("challenge already completed")
		}
		ch.Progress = model.ChallengeArrived
		b, err = jsoniter.Marshal(&ch)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(id), b)
	})
}

func discardChallenge(id string) error {
	return storeUpdate(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketChallenge))
		if bkt == nil {
			return nil
		}
		return bkt.Delete([]byte(id))
	})
}
