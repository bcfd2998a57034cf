package service

import (
	"fmt"

	"github.com/boltdb/bolt"
	jsoniter "github.com/json-iterator/go"
	"github.com/telefiles/gatekeeper/model"
	"github.com/telefiles/gatekeeper/pkg/log"
)

// recordAccess appends an allow/deny event for abuse monitoring. Logging
// failures never affect the authorization outcome.
func recordAccess(ev model.AccessEvent) {
	if err := storeUpdate(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketAccessLog))
		if err != nil {
			return err
		}
		seq, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		b, err := jsoniter.Marshal(&ev)
		if err != nil {
			return err
		}
		// zero-padded nanos + sequence keep keys chronological
		key := fmt.Sprintf("%019d-%09d", ev.At.UnixNano(), seq)
		return bkt.Put([]byte(key), b)
	}); err != nil {
		log.Warn("record access event: %v", err)
	}
}

// RecentAccessEvents returns up to limit events, newest first.
func RecentAccessEvents(limit int) (events []model.AccessEvent, err error) {
	err = storeView(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketAccessLog))
		if bkt == nil {
			return nil
		}
		c := bkt.Cursor()
		for k, b := c.Last(); k != nil && len(events) < limit; k, b = c.Prev() {
			var ev model.AccessEvent
			if err := jsoniter.Unmarshal(b, &ev); err != nil {
				continue
			}
			events = append(events, ev)
		}
		return nil
	})
	return events, err
}
