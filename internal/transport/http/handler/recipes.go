package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"recipesnap/internal/app"
	"recipesnap/internal/transport/http/response"
)

type RecipeHandler struct {
	recipeService *app.RecipeService
}

type GenerateRecipesRequest struct {
	Ingredients  []string `json:"ingredients" binding:"required"`
	ImageCaption string   `json:"image_caption"`
}

func NewRecipeHandler(recipeService *app.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) Generate(c *gin.Context) {
	var req GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.recipeService.Generate(c.Request.Context(), app.GenerateRecipesInput{
		Ingredients:  req.Ingredients,
		ImageCaption: req.ImageCaption,
	})
	if err != nil {
		writeServiceError(c, err, "Error generating recipes: ")
		return
	}
	response.OK(c, result)
}

// Stream sends completion chunks as SSE data events, then a "done" event
// with the full result. Failures before the first chunk are plain JSON
// errors; later ones arrive as an "error" event.
func (h *RecipeHandler) Stream(c *gin.Context) {
	var req GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, "stream not supported")
		return
	}

	result, err := h.recipeService.Stream(c.Request.Context(), app.GenerateRecipesInput{
		Ingredients:  req.Ingredients,
		ImageCaption: req.ImageCaption,
	}, func(chunk string) error {
		c.SSEvent("", chunk)
		flusher.Flush()
		return c.Request.Context().Err()
	})
	if err != nil {
		if !c.Writer.Written() {
			// Nothing streamed yet, so a plain JSON error still fits.
			c.Writer.Header().Del("Content-Type")
			writeServiceError(c, err, "Error generating recipes: ")
			return
		}
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("recipe stream interrupted")
		c.SSEvent("error", "Error generating recipes: "+err.Error())
		flusher.Flush()
		return
	}

	c.SSEvent("done", result)
	flusher.Flush()
}
