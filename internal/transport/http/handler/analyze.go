package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipesnap/internal/app"
	"recipesnap/internal/model"
	"recipesnap/internal/transport/http/response"
)

const uploadField = "file"

type AnalyzeHandler struct {
	analyzeService *app.AnalyzeService
}

func NewAnalyzeHandler(analyzeService *app.AnalyzeService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzeService: analyzeService}
}

// Analyze accepts a multipart upload in field "file". The same field may
// instead carry a base64 data URL as a plain form value.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		result *model.AnalysisResult
		err    error
	)
	fileHeader, fileErr := c.FormFile(uploadField)
	switch {
	case fileErr == nil:
		data, readErr := readUpload(fileHeader)
		if readErr != nil {
			writeBindError(c, readErr)
			return
		}
		result, err = h.analyzeService.Analyze(ctx, data)
	case c.PostForm(uploadField) != "":
		result, err = h.analyzeService.AnalyzeBase64(ctx, c.PostForm(uploadField))
	case isTooLarge(fileErr):
		writeBindError(c, fileErr)
		return
	default:
		response.Error(c, http.StatusUnprocessableEntity, fmt.Sprintf("form field %q is required", uploadField))
		return
	}

	if err != nil {
		writeServiceError(c, err, "Error processing image: ")
		return
	}
	response.OK(c, result)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
