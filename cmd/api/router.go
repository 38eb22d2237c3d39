package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/infrastructure/metrics"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = false

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.SecurityHeaders(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigin),
		middleware.Metrics(c.Metrics),
		c.GeneralLimiter.Middleware(),
		middleware.ErrorHandler(c.Config.IsDevelopment()),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler(c.Registry)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			setupAuthorRoutes(protected, c)
			setupBookRoutes(protected, c)
			setupUserRoutes(protected, c)
			setupExportRoutes(protected, c)
		}
	}

	router.NoRoute(middleware.NotFound())

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "API is running",
			"version":   c.Config.App.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

func setupAuthRoutes(rg *gin.RouterGroup, c *container.Container) {
	auth := rg.Group("/auth")
	auth.Use(c.AuthLimiter.Middleware())
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupAuthorRoutes(rg *gin.RouterGroup, c *container.Container) {
	authors := rg.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.List)
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.PUT("/:id", c.AuthorHandler.Update)
		authors.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

func setupBookRoutes(rg *gin.RouterGroup, c *container.Container) {
	books := rg.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", c.BookHandler.CreateBook)
		books.GET("/:id", c.BookHandler.GetBookDetail)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

func setupUserRoutes(rg *gin.RouterGroup, c *container.Container) {
	users := rg.Group("/users")
	{
		users.GET("", c.UserHandler.ListUsers)
		users.GET("/:id", c.UserHandler.GetUser)
	}
}

func setupExportRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.GET("/export", c.ExportHandler.Export)
}
