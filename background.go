package main

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/telefiles/gatekeeper/model"
)

func GoBackgrounds() {
	// remove expired challenges
	go model.ExpireCleanBackground(model.BucketChallenge, 10*time.Second, func(b []byte, now time.Time) (expired bool) {
		var ch model.Challenge
		if err := jsoniter.Unmarshal(b, &ch); err != nil {
			// invalid challenges are regarded as expired
			return true
		}
		return ch.Expired(now)
	})()

	// trim old access events
	go model.ExpireCleanBackground(model.BucketAccessLog, 1*time.Hour, func(b []byte, now time.Time) (expired bool) {
		var ev model.AccessEvent
		if err := jsoniter.Unmarshal(b, &ev); err != nil {
			return true
		}
		return now.Sub(ev.At) > model.AccessLogRetention
	})()
}
