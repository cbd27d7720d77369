package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/docbrief/ai/summarize"
	"github.com/hrygo/docbrief/document"
	"github.com/hrygo/docbrief/document/extract"
	"github.com/hrygo/docbrief/pipeline"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}

func (s *Server) handleSummarize(c echo.Context) error {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:     `multipart field "file" is required`,
			RequestID: requestID,
		})
	}

	src, err := fh.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", "filename", fh.Filename, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:     "failed to read uploaded file",
			RequestID: requestID,
		})
	}
	defer src.Close()

	result, err := s.pipeline.Process(c.Request().Context(), pipeline.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Content:     src,
	})
	if err != nil {
		status := statusCodeFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("summarization request failed", "filename", fh.Filename, "request_id", requestID, "error", err)
		} else {
			slog.Info("summarization request rejected", "filename", fh.Filename, "request_id", requestID, "error", err)
		}
		return c.JSON(status, errorResponse{Error: err.Error(), RequestID: requestID})
	}

	return c.JSON(http.StatusOK, result)
}

// statusCodeFor maps a pipeline failure onto the response status: client
// mistakes are 4xx, upstream summarization trouble is 502, everything else
// stays a 500.
func statusCodeFor(err error) int {
	var (
		validationErr  *document.ValidationError
		unsupportedErr *extract.UnsupportedFormatError
		emptyErr       *pipeline.EmptyTextError
		summarizeErr   *summarize.SummarizationError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &unsupportedErr):
		return http.StatusBadRequest
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &summarizeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
