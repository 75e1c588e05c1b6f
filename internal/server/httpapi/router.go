package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	JWTSecret   []byte
	CORSOrigins []string

	Users       *UserHandler
	Documents   *DocumentHandler
	Corrections *CorrectionHandler
	Health      *HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
		}))
	}

	router.GET("/healthcheck", cfg.Health.Check)

	api := router.Group("/api")

	api.POST("/register", cfg.Users.Register)
	api.POST("/login", cfg.Users.Login)
	api.POST("/refresh", cfg.Users.Refresh)

	protected := api.Group("/")
	protected.Use(authRequired(cfg.JWTSecret))

	protected.POST("/user/password", cfg.Users.ChangePassword)

	protected.POST("/documents", cfg.Documents.Create)
	protected.GET("/documents", cfg.Documents.List)
	protected.GET("/documents/:id", cfg.Documents.Get)
	protected.PUT("/documents/:id", cfg.Documents.Update)
	protected.DELETE("/documents/:id", cfg.Documents.Delete)
	protected.GET("/documents/:id/sentences", cfg.Documents.Sentences)
	protected.POST("/documents/:id/analyze", cfg.Documents.Analyze)

	protected.GET("/sentences/:id/corrections", cfg.Corrections.List)
	protected.POST("/sentences/:id/corrections", cfg.Corrections.Create)
	protected.POST("/sentences/:id/corrections/:cid/apply", cfg.Corrections.Apply)

	return router
}
