package handler

import (
	"github.com/gin-gonic/gin"

	"recipesnap/internal/bootstrap"
	"recipesnap/internal/transport/http/response"
)

type HealthHandler struct {
	app *bootstrap.App
}

type healthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check always answers 200; readiness is carried in models_loaded.
func (h *HealthHandler) Check(c *gin.Context) {
	response.OK(c, healthResponse{
		Status:       "healthy",
		ModelsLoaded: h.app.Models.Loaded(),
	})
}
