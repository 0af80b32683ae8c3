package assistant_http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the assistant API on the echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/v1/assistant/recommend", h.Recommend)
	e.GET("/v1/assistant/carousel", h.Carousel)
	e.POST("/v1/assistant/transcribe", h.Transcribe)
}
