package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/telefiles/gatekeeper/db"
	"github.com/telefiles/gatekeeper/model"
)

const storeAttempts = 3

// storeUpdate runs fn in a write transaction, retrying transient store
// failures with a short backoff. Policy errors returned by fn pass through
// untouched and are never retried; only connectivity-level failures surface
// as ErrStoreUnavailable, so callers can tell "not authorized" from "could
// not determine".
func storeUpdate(fn func(tx *bolt.Tx) error) error {
	return storeDo(db.DB().Update, fn)
}

func storeView(fn func(tx *bolt.Tx) error) error {
	return storeDo(db.DB().View, fn)
}

func storeDo(do func(fn func(tx *bolt.Tx) error) error, fn func(tx *bolt.Tx) error) error {
	var err error
	for i := 0; i < storeAttempts; i++ {
		err = do(fn)
		if err == nil || !transient(err) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 50 * time.Millisecond)
	}
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}

func transient(err error) bool {
	return errors.Is(err, bolt.ErrTimeout) || errors.Is(err, bolt.ErrDatabaseNotOpen)
}
