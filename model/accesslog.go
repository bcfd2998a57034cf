package model

import "time"

const (
	BucketAccessLog = "accesslog"

	// AccessLogRetention bounds how long allow/deny events are kept before
	// the background sweeper drops them.
	AccessLogRetention = 7 * 24 * time.Hour
)

type AccessEvent struct {
	Subject  string
	Resource string
	Allowed  bool
	Reason   DenyReason
	At       time.Time
}
