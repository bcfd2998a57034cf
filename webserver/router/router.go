package router

import (
	"github.com/gin-gonic/gin"
	"github.com/telefiles/gatekeeper/config"
	"github.com/telefiles/gatekeeper/webserver/controller"
)

func Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(controller.Templates())
	engine.GET("/healthz", controller.GetHealth)
	engine.GET("/redirect", controller.GetRedirect)
	engine.GET("/verify", controller.GetVerify)
	engine.GET("/status", controller.GetStatus)
	api := engine.Group("/api")
	{
		api.POST("complete", controller.PostComplete)
		api.GET("feed", controller.GetFeed)
		resource := api.Group(":Subject/resource/:Resource")
		{
			resource.GET("access", controller.GetAccess)
			resource.POST("authorize", controller.PostAuthorize)
		}
	}
	return engine
}

func Run() error {
	return Engine().Run(config.GetConfig().Address)
}
