package router

import (
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"damagelens/internal/auth"
	"damagelens/internal/config"
	"damagelens/internal/errors"
	"damagelens/internal/handler"
	"damagelens/internal/storage"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	notificationHandler *handler.NotificationHandler,
	predictionHandler *handler.PredictionHandler,
	feedbackHandler *handler.FeedbackHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded profile images are public read-only.
	e.Static("/uploads/"+storage.ProfileImageDir, filepath.Join(cfg.UploadDir, storage.ProfileImageDir))

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/feedbacks", feedbackHandler.List)
	api.POST("/feedbacks", feedbackHandler.Submit)

	// Secured routes (require JWT authentication)
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
	secured := api.Group("", jwtMiddleware)

	// Profile routes
	secured.GET("/users/profile", userHandler.GetProfile)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.PUT("/users/change-password", userHandler.ChangePassword)
	secured.DELETE("/users/delete", userHandler.DeleteAccount)

	// Notification routes for regular users
	secured.GET("/notifications/user", notificationHandler.ListForUser)

	// Prediction routes
	secured.POST("/predict", predictionHandler.Predict)
	secured.GET("/predictions/mine", predictionHandler.ListMine)

	// Admin routes (token verification first, then role gate)
	admin := api.Group("/admin", jwtMiddleware, RequireAdmin)
	admin.GET("/users", userHandler.ListUsers)
	admin.PUT("/users/:id/role", userHandler.UpdateRole)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
	admin.GET("/notifications", notificationHandler.ListAll)
	admin.POST("/notifications", notificationHandler.Create)
	admin.GET("/predictions", predictionHandler.ListAll)
	admin.DELETE("/predictions/:id", predictionHandler.Delete)

	// Read-acknowledgement lives under the admin prefix for compatibility
	// with the paired UI but is open to any authenticated user; ownership
	// checks happen in the service.
	secured.PUT("/admin/notifications/:id/read", notificationHandler.MarkRead)
}

// RequireAdmin rejects verified identities lacking the admin role. It must
// run after the JWT middleware, never instead of it.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := auth.IdentityFrom(c)
		if identity == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if !identity.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "admin access required",
				Code:  "ADMIN_ONLY",
			})
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
