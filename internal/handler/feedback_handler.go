package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"damagelens/internal/errors"
	"damagelens/internal/service"
)

// FeedbackHandler handles the public feedback board.
type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// SubmitFeedbackRequest represents a public testimonial submission.
type SubmitFeedbackRequest struct {
	Name   string `json:"name" validate:"required,min=2"`
	City   string `json:"city"`
	Review string `json:"review" validate:"required,min=5"`
}

// Submit godoc
// @Summary Submit a testimonial
// @Tags feedbacks
// @Accept json
// @Produce json
// @Param request body SubmitFeedbackRequest true "Testimonial"
// @Success 201 {object} model.Feedback
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /feedbacks [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var req SubmitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	feedback, err := h.feedbackService.Submit(c.Request().Context(), req.Name, req.City, req.Review, c.RealIP())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, feedback)
}

// List godoc
// @Summary List the ten most recent testimonials
// @Tags feedbacks
// @Produce json
// @Success 200 {array} model.Feedback
// @Failure 500 {object} errors.ErrorResponse
// @Router /feedbacks [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	feedbacks, err := h.feedbackService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, feedbacks)
}
