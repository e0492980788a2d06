package router

import (
	"net/http"

	"github.com/Payphone-Digital/shortlink/config"
	"github.com/Payphone-Digital/shortlink/internal/constants"
	"github.com/Payphone-Digital/shortlink/internal/dto"
	"github.com/Payphone-Digital/shortlink/internal/handler"
	"github.com/Payphone-Digital/shortlink/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler   *handler.AuthHandler
	linkHandler   *handler.LinkHandler
	healthHandler *handler.HealthHandler

	validMw *middleware.ValidationMiddleware
	jwtMw   *middleware.JWTMiddleware
	Config  *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	link *handler.LinkHandler,
	health *handler.HealthHandler,

	validMw *middleware.ValidationMiddleware,
	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		linkHandler:   link,
		healthHandler: health,

		validMw: validMw,
		jwtMw:   jwtMw,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.ContextMiddleware(r.Config.App.Timeout))
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RequestResponseMiddleware())
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, constants.BuildErrorResponse(constants.MsgRouteNotFound, nil))
	})

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		r.authRoutes(api)
		r.userRoutes(api)
	}

	return router
}

func registerRequest() interface{} { return &dto.RegisterRequest{} }
func loginRequest() interface{}    { return &dto.LoginRequest{} }
func shortenRequest() interface{}  { return &dto.ShortenRequest{} }
