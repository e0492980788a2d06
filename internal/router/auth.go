package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", r.validMw.ValidateRequestBody(registerRequest), r.authHandler.Register)
		auth.POST("/login", r.validMw.ValidateRequestBody(loginRequest), r.authHandler.Login)
		auth.GET("/refresh-token", r.authHandler.RefreshToken)

		// an invalid refresh session is a forced logout
		auth.GET("/logout", r.jwtMw.RequireRefreshSession(), r.authHandler.Logout)
	}
}
