package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/service"
)

// GetRedirect is the shortlink landing: the subject completed the
// out-of-band hop and is forwarded to the countdown page. Arrival is
// tracked on the challenge.
func GetRedirect(c *gin.Context) {
	id := c.Query("challenge")
	if id == "" {
		renderError(c, http.StatusBadRequest, "Invalid verification link.")
		return
	}
	if err := service.ChallengeArrived(id); err != nil {
		renderError(c, http.StatusGone, err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/verify?challenge="+url.QueryEscape(id))
}

// PostComplete exchanges a completed challenge for a token. Subject is
// optional; when present it must match the challenge binding.
func PostComplete(c *gin.Context) {
	var body struct {
		ChallengeID string
		Subject     string
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ChallengeID == "" {
		common.ResponseBadRequestError(c)
		return
	}
	if body.Subject != "" {
		ch, err := service.GetChallenge(body.ChallengeID)
		if err != nil {
			common.ResponseError(c, err)
			return
		}
		if ch.Subject != body.Subject {
			common.ResponseError(c, fmt.Errorf("challenge belongs to another subject"))
			return
		}
	}
	token, err := service.CompleteChallenge(body.ChallengeID)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseSuccess(c, gin.H{
		"Token": token,
	})
}

// GetStatus reports the progress of an outstanding challenge.
func GetStatus(c *gin.Context) {
	id := c.Query("challenge")
	if id == "" {
		common.ResponseBadRequestError(c)
		return
	}
	ch, err := service.GetChallenge(id)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseSuccess(c, gin.H{
		"Progress":  ch.Progress,
		"Expired":   ch.Expired(time.Now()),
		"CreatedAt": ch.CreatedAt,
		"ExpireAt":  ch.ExpireAt,
	})
}

func GetHealth(c *gin.Context) {
	common.ResponseSuccess(c, gin.H{
		"Status": "healthy",
	})
}
