package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer wires the handler's routes into a new echo instance.
func NewServer(h *Handler, loglevel string) (*echo.Echo, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	SetLevel(e, loglevel)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.DefaultHTTPErrorHandler(err, c)
		e.Logger.Error(err)
	}
	e.Use(middleware.Recover())
	e.Use(LogHandlerFunc)

	e.GET("/", h.Index)
	e.GET("/predict/imc_pasos", h.ClassifyForm)
	e.POST("/predict/imc_pasos", h.Classify)
	e.GET("/visualization", h.Visualization)

	api := e.Group("/api")
	api.POST("/predict", h.APIPredict)
	api.GET("/status", h.APIStatus)

	return e, nil
}
