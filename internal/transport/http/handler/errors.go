package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"recipesnap/internal/app"
	"recipesnap/internal/transport/http/response"
	"recipesnap/internal/vision"
)

// writeServiceError maps service errors onto status codes. Decode and
// inference failures share a 500; the log line tells them apart.
func writeServiceError(c *gin.Context, err error, prefix string) {
	logger := zerolog.Ctx(c.Request.Context())

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, app.ErrModelsNotReady):
		logger.Warn().Msg("request rejected, models not ready")
		response.Error(c, http.StatusServiceUnavailable, response.ModelsNotReadyDetail)
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, response.TooLargeDetail(tooLarge.Limit))
	case errors.Is(err, vision.ErrMalformedImage):
		logger.Warn().Err(err).Str("kind", "malformed_image").Msg("request failed")
		response.Error(c, http.StatusInternalServerError, prefix+err.Error())
	default:
		logger.Error().Err(err).Str("kind", "inference").Msg("request failed")
		response.Error(c, http.StatusInternalServerError, prefix+err.Error())
	}
}

// writeBindError answers malformed payloads with 422, or 413 when the body
// hit the upload cap while being read.
func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.TooLargeDetail(tooLarge.Limit))
		return
	}
	response.Error(c, http.StatusUnprocessableEntity, err.Error())
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
