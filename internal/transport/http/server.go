package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	appsvc "recipesnap/internal/app"
	"recipesnap/internal/bootstrap"
	"recipesnap/internal/transport/http/handler"
	"recipesnap/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.RecoveryWithWriter(log.Logger),
		middleware.CORS(app.Config.HTTP.AllowedOrigins),
		middleware.BodyLimit(app.Config.HTTP.MaxUploadBytes),
	)

	analyzeService := appsvc.NewAnalyzeService(app.Models)
	recipeService := appsvc.NewRecipeService(app.Models)

	healthHandler := handler.NewHealthHandler(app)
	analyzeHandler := handler.NewAnalyzeHandler(analyzeService)
	recipeHandler := handler.NewRecipeHandler(recipeService)

	router.GET("/health", healthHandler.Check)
	router.POST("/analyze", analyzeHandler.Analyze)
	router.POST("/generate-recipes", recipeHandler.Generate)
	router.POST("/generate-recipes/stream", recipeHandler.Stream)

	return router
}
