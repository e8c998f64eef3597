package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"health_service/internal/core"
	"health_service/internal/domain/model"
)

const (
	messageInvalidInput = "Por favor, ingresa valores numéricos válidos para IMC y pasos diarios."
	messageModelMissing = "Archivos del modelo no encontrados. Por favor, asegúrate de que los archivos del modelo estén en la ubicación correcta."
	messageNoChart      = "La visualización todavía no ha sido generada. Ejecuta el entrenamiento del modelo."
)

type Handler struct {
	service           *core.ClassificationService
	visualizationPath string
}

func NewHandler(service *core.ClassificationService, visualizationPath string) *Handler {
	return &Handler{
		service:           service,
		visualizationPath: visualizationPath,
	}
}

// ClassifyView is the data behind the classification page.
type ClassifyView struct {
	Error      string
	Prediction bool
	Cluster    int
	Info       model.ClusterDescription
	IMC        float64
	Pasos      float64
}

type PredictRequest struct {
	IMC   *float64 `json:"imc"`
	Pasos *float64 `json:"pasos"`
}

type PredictResponse struct {
	Cluster     int     `json:"cluster"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	IMC         float64 `json:"imc"`
	Pasos       float64 `json:"pasos"`
}

func (h *Handler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", h.service.Status())
}

func (h *Handler) ClassifyForm(c echo.Context) error {
	return c.Render(http.StatusOK, "imc_pasos.html", ClassifyView{})
}

// Classify handles the form submission. The page is always rendered with
// status 200; failures are shown as a message above the form.
func (h *Handler) Classify(c echo.Context) error {
	view := ClassifyView{}

	obs, err := core.ParseObservation(c.FormValue("imc"), c.FormValue("pasos"))
	if err == nil {
		var result *model.Classification
		result, err = h.service.Classify(c.Request().Context(), obs)
		if err == nil {
			view.Prediction = true
			view.Cluster = result.ClusterID
			view.Info = result.Description
			view.IMC = obs.IMC
			view.Pasos = obs.Steps
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, core.ErrValidation):
		view.Error = messageInvalidInput
	case errors.Is(err, core.ErrModelUnavailable):
		view.Error = messageModelMissing
	default:
		log.Printf("Error classifying observation: %v", err)
		view.Error = fmt.Sprintf("Ocurrió un error: %v", err)
	}
	return c.Render(http.StatusOK, "imc_pasos.html", view)
}

// Visualization serves the page written by the trainer.
func (h *Handler) Visualization(c echo.Context) error {
	err := c.File(h.visualizationPath)
	if errors.Is(err, echo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, messageNoChart)
	}
	return err
}

func (h *Handler) APIPredict(c echo.Context) error {
	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.IMC == nil || req.Pasos == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "imc and pasos are required")
	}

	obs := model.Observation{IMC: *req.IMC, Steps: *req.Pasos}
	result, err := h.service.Classify(c.Request().Context(), obs)
	var verr *core.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, core.ErrModelUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return fmt.Errorf("error getting prediction: %w", err)
	}

	return c.JSON(http.StatusOK, PredictResponse{
		Cluster:     result.ClusterID,
		Name:        result.Description.Name,
		Description: result.Description.Description,
		Color:       result.Description.Color,
		Icon:        result.Description.Icon,
		IMC:         obs.IMC,
		Pasos:       obs.Steps,
	})
}

func (h *Handler) APIStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Status())
}
