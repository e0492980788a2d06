package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(api *gin.RouterGroup) {
	user := api.Group("/user")
	{
		protected := user.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/shorten", r.validMw.ValidateRequestBody(shortenRequest), r.linkHandler.Shorten)
			protected.GET("/urls", r.linkHandler.List)
			protected.DELETE("/urls/:urlId", r.linkHandler.Delete)
			protected.POST("/logout", r.authHandler.Logout)
		}

		// public; static siblings above take precedence over the code
		user.GET("/:shortCode", r.linkHandler.Redirect)
	}
}
