package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"damagelens/internal/auth"
	"damagelens/internal/errors"
	"damagelens/internal/service"
	"damagelens/internal/storage"
)

// PredictionHandler handles the prediction proxy and prediction records.
type PredictionHandler struct {
	predictionService service.PredictionService
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(predictionService service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// Predict godoc
// @Summary Proxy a damage prediction to the external service
// @Description Forwards images and vehicle metadata upstream and relays the
// @Description upstream JSON response verbatim. Results are recorded for the
// @Description authenticated user.
// @Tags predictions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param vehicle_name formData string true "Vehicle name"
// @Param vehicle_model formData string true "Vehicle model"
// @Param images formData file true "Damage images (1-6, jpg/jpeg/png, max 5MB each)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /predict [post]
func (h *PredictionHandler) Predict(c echo.Context) error {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	vehicleName := c.FormValue("vehicle_name")
	vehicleModel := c.FormValue("vehicle_model")
	if vehicleName == "" || vehicleModel == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "vehicle_name and vehicle_model are required",
			Code:  "VALIDATION_FAILED",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	images := form.File["images"]
	if len(images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "at least one image is required",
			Code:  "VALIDATION_FAILED",
		})
	}
	if len(images) > service.MaxPredictImages {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: fmt.Sprintf("at most %d images are allowed", service.MaxPredictImages),
			Code:  "VALIDATION_FAILED",
		})
	}

	ownerID := identity.UserID
	raw, err := h.predictionService.Predict(c.Request().Context(), vehicleName, vehicleModel, images, &ownerID)
	if err != nil {
		if uploadErr, ok := err.(*storage.UploadError); ok {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: uploadErr.Message,
				Code:  uploadErr.Code,
			})
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSONBlob(http.StatusOK, raw)
}

// ListAll godoc
// @Summary List all predictions (admin)
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Prediction
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/predictions [get]
func (h *PredictionHandler) ListAll(c echo.Context) error {
	predictions, err := h.predictionService.ListAll(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, predictions)
}

// ListMine godoc
// @Summary List the authenticated user's prediction history
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Prediction
// @Failure 401 {object} errors.ErrorResponse
// @Router /predictions/mine [get]
func (h *PredictionHandler) ListMine(c echo.Context) error {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	predictions, err := h.predictionService.ListMine(c.Request().Context(), identity.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, predictions)
}

// Delete godoc
// @Summary Delete a prediction (admin)
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prediction ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/predictions/{id} [delete]
func (h *PredictionHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prediction id")
	}

	if err := h.predictionService.Delete(c.Request().Context(), uint(id)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "prediction deleted successfully",
	})
}
