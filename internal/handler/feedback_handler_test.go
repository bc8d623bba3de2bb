package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"damagelens/internal/model"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func TestFeedbackHandler_Submit_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		expectCall bool
	}{
		{
			name:       "one-letter name rejected",
			body:       `{"name":"A","review":"Great service"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "two-letter name accepted",
			body:       `{"name":"Al","review":"Great service"}`,
			wantStatus: http.StatusCreated,
			expectCall: true,
		},
		{
			name:       "review shorter than five chars rejected",
			body:       `{"name":"Alice","review":"Meh"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing review rejected",
			body:       `{"name":"Alice"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFeedbackService)
			if tt.expectCall {
				mockService.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(&model.Feedback{ID: 1, Name: "Al", Review: "Great service"}, nil)
			}

			h := NewFeedbackHandler(mockService)

			e := newTestEcho()
			req := httptest.NewRequest(http.MethodPost, "/api/feedbacks", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Submit(c)

			if tt.wantStatus >= 400 {
				httpErr, ok := err.(*echo.HTTPError)
				assert.True(t, ok)
				assert.Equal(t, tt.wantStatus, httpErr.Code)
				mockService.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, rec.Code)
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestFeedbackHandler_List(t *testing.T) {
	mockService := new(MockFeedbackService)
	mockService.On("List", mock.Anything).Return([]model.Feedback{
		{ID: 2, Name: "Newer", Review: "Nice cost range"},
		{ID: 1, Name: "Older", Review: "Fast estimate"},
	}, nil)

	h := NewFeedbackHandler(mockService)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/feedbacks", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Newer")
}
