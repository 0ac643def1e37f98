package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"eduphysics/internal/config"
	"eduphysics/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	studentHandler *handler.StudentHandler,
	analyticsHandler *handler.AnalyticsHandler,
	healthHandler *handler.HealthHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Welcome to EduPhysics Academy API",
			"version": "1.0.0",
			"endpoints": echo.Map{
				"health":    "/api/health",
				"login":     "POST /api/auth/login",
				"students":  "/api/students",
				"analytics": "/api/analytics/overview",
				"finance":   "/api/analytics/finance",
			},
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/health", healthHandler.Check)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/students/register", studentHandler.Register)

	// Admin routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(newJWTConfig(cfg.JWTSecret)))

	secured.GET("/students", studentHandler.List)
	secured.GET("/students/:id", studentHandler.Get)
	secured.POST("/students", studentHandler.Create)
	secured.PUT("/students/:id", studentHandler.Update)
	secured.PUT("/students/:id/verify", studentHandler.Verify)
	secured.DELETE("/students/:id", studentHandler.Delete)

	secured.GET("/analytics/overview", analyticsHandler.Overview)
	secured.GET("/analytics/finance", analyticsHandler.Finance)
}

// newJWTConfig builds the echo-jwt config guarding admin routes. Tokens are
// read from the Authorization header in "Bearer <token>" form.
func newJWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
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
