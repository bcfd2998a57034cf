package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/service"
)

func GetFeed(c *gin.Context) {
	var format service.FeedFormat
	var contentType string
	switch c.Query("format") {
	case "atom":
		format = service.FeedFormatAtom
		contentType = "application/atom+xml; charset=utf-8"
	case "json":
		format = service.FeedFormatJSON
		contentType = "application/json; charset=utf-8"
	default:
		format = service.FeedFormatRSS
		contentType = "application/rss+xml; charset=utf-8"
	}
	out, err := service.GetAccessFeed(format)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, []byte(out))
}
