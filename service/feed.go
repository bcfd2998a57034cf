package service

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
)

type FeedFormat int

const (
	FeedFormatRSS FeedFormat = iota
	FeedFormatAtom
	FeedFormatJSON
)

const feedItemLimit = 50

// GetAccessFeed renders recent access events as a syndication feed for
// operator monitoring.
func GetAccessFeed(format FeedFormat) (string, error) {
	events, err := RecentAccessEvents(feedItemLimit)
	if err != nil {
		return "", err
	}
	feed := feeds.Feed{
		Title:       "Gatekeeper access events",
		Link:        &feeds.Link{Href: opts.CallbackBase + "/api/feed"},
		Description: "Allow and deny decisions of the verification-token gateway",
		Created:     time.Now(),
	}
	for _, ev := range events {
		title := fmt.Sprintf("Allow: resource %v", ev.Resource)
		if !ev.Allowed {
			title = fmt.Sprintf("Deny (%v): resource %v", ev.Reason, ev.Resource)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       title,
			Link:        &feeds.Link{Href: opts.CallbackBase + "/api/feed"},
			Description: fmt.Sprintf("subject %v", ev.Subject),
			Created:     ev.At,
			Id:          fmt.Sprintf("%v/%v/%v", ev.Subject, ev.Resource, ev.At.UnixNano()),
		})
	}
	switch format {
	case FeedFormatAtom:
		return feed.ToAtom()
	case FeedFormatJSON:
		return feed.ToJSON()
	default:
		return feed.ToRss()
	}
}
