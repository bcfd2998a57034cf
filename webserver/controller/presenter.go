package controller

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/telefiles/gatekeeper/common"
	"github.com/telefiles/gatekeeper/config"
	"github.com/telefiles/gatekeeper/model"
	"github.com/telefiles/gatekeeper/service"
)

// The countdown page holds no security logic: it is reached only after the
// subject passed the shortlink hop, and the destination it redirects to is
// validated against the allow-list before rendering.
const pageTemplates = `
{{define "verify"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Verification</title></head>
<body>
<h2>Verification passed</h2>
<p>Returning to the bot in <span id="count">{{.CountdownSeconds}}</span>&nbsp;s &hellip;</p>
<p><a id="skip" href="{{.RedirectURL}}">Continue now</a></p>
<script>
var left = {{.CountdownSeconds}};
var done = false;
function go() {
	if (done) return;
	done = true;
	window.location.replace({{.RedirectURL}});
}
var timer = setInterval(function () {
	left--;
	document.getElementById("count").textContent = left;
	if (left <= 0) {
		clearInterval(timer);
		go();
	}
}, 1000);
document.getElementById("skip").addEventListener("click", function (e) {
	e.preventDefault();
	clearInterval(timer);
	go();
});
</script>
</body>
</html>{{end}}
{{define "error"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Verification</title></head>
<body>
<h2>Verification failed</h2>
<p>{{.Message}}</p>
</body>
</html>{{end}}`

func Templates() *template.Template {
	return template.Must(template.New("").Parse(pageTemplates))
}

// GetVerify renders the countdown page for a live challenge and performs
// the final redirect back into the messaging platform.
func GetVerify(c *gin.Context) {
	id := c.Query("challenge")
	if id == "" {
		renderError(c, http.StatusBadRequest, "Invalid verification link.")
		return
	}
	ch, err := service.GetChallenge(id)
	if err != nil {
		renderError(c, http.StatusNotFound, "Verification link not found or expired.")
		return
	}
	if ch.Expired(time.Now()) {
		renderError(c, http.StatusGone, "Verification link has expired. Please request a new one.")
		return
	}
	if ch.Progress == model.ChallengeDone {
		renderError(c, http.StatusGone, "This verification link has already been used.")
		return
	}
	if ch.Progress == model.ChallengeWaiting {
		renderError(c, http.StatusForbidden, "Please follow the verification link you were given first.")
		return
	}
	cfg := config.GetConfig()
	redirect := common.BuildDeepLink(cfg.BotUsername, "verify-"+ch.ID)
	if !common.HostInAllowlist(redirect, common.Deduplicate(strings.Split(cfg.RedirectAllowlist, ","))) {
		renderError(c, http.StatusForbidden, "Redirect destination is not allowed.")
		return
	}
	c.HTML(http.StatusOK, "verify", gin.H{
		"RedirectURL":      redirect,
		"CountdownSeconds": cfg.CountdownSeconds,
	})
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error", gin.H{
		"Message": message,
	})
}
