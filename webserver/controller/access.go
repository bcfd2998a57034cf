package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/service"
)

// GetAccess is the bot-facing entry point: it either grants a token right
// away or points the subject into the verification flow.
func GetAccess(c *gin.Context) {
	subject := c.Param("Subject")
	resource := c.Param("Resource")
	if subject == "" || resource == "" {
		common.ResponseBadRequestError(c)
		return
	}
	decision, err := service.RequestAccess(subject, resource)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseSuccess(c, gin.H{
		"Granted":     decision.Granted,
		"Token":       decision.Token,
		"RedirectURL": decision.RedirectURL,
	})
}

// PostAuthorize validates a token for one fetch of the resource.
func PostAuthorize(c *gin.Context) {
	var body struct {
		Token string
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		common.ResponseBadRequestError(c)
		return
	}
	subject := c.Param("Subject")
	resource := c.Param("Resource")
	decision, err := service.Authorize(body.Token, subject, resource)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	resp := gin.H{
		"Allowed":    decision.Allowed,
		"DenyReason": decision.Reason,
	}
	if decision.Token != nil {
		resp["UsesRemaining"] = decision.Token.UsesRemaining
	}
	common.ResponseSuccess(c, resp)
}
