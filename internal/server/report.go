package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/newscast/models"
)

// ReportService produces a news report response. It never fails; errors are carried
// in the response body.
type ReportService interface {
	Report(ctx context.Context, req models.ReportRequest) models.ReportResponse
}

type ReportHandler struct {
	Reporter ReportService
}

func (h *ReportHandler) Register(e *echo.Echo) {
	e.GET("/news_report", h.newsReport)
}

// newsReport always answers 200; callers distinguish failures by the "error" key.
func (h *ReportHandler) newsReport(c echo.Context) error {
	req := models.ReportRequest{
		Topic:  c.QueryParam("topic"),
		Debate: c.QueryParam("debate") == "true",
		Area:   c.QueryParam("area"),
	}
	resp := h.Reporter.Report(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}
