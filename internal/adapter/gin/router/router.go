package router

import (
	_ "embed"
	"net/http"

	"exercise-tracker/internal/adapter/gin/handler"
	"exercise-tracker/internal/adapter/gin/middleware"
	"exercise-tracker/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

//go:embed docs/openapi.json
var openAPIDoc []byte

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, serviceName string, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(cors.Default())

	router.GET("/", handler.Landing)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	swaggerUI := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIDoc)
			return
		}
		swaggerUI(c)
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.POST("/:_id/exercises", userHandler.AddExercise)
			users.GET("/:_id/logs", userHandler.GetExerciseLog)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Error: "Not found"})
	})

	return router
}
