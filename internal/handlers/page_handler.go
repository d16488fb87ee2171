package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"growsense/internal/metrics"
	"growsense/internal/pages"
)

type PageHandler struct {
	site    pages.Site
	metrics *metrics.Metrics
}

func NewPageHandler(site pages.Site, m *metrics.Metrics) *PageHandler {
	return &PageHandler{site: site, metrics: m}
}

// Show renders one of the static marketing pages.
func (h *PageHandler) Show(page pages.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.metrics.RecordPageView(c.Request.Context(), page.Name)
		c.HTML(http.StatusOK, page.Template, pages.NewView(h.site, page))
	}
}
