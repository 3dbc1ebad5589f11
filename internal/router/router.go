package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cohorts/internal/config"
	apperrors "cohorts/internal/errors"
	"cohorts/internal/handler"
	"cohorts/internal/service"
	"cohorts/internal/validation"
)

const bodyLimit = "1M"

// Handlers groups the HTTP handlers wired by Register.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Cohort  *handler.CohortHandler
	Student *handler.StudentHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger zerolog.Logger,
	authService service.AuthService,
	h Handlers,
) {
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Validator = &CustomValidator{validator: validation.New()}

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	requireAuth := echojwt.WithConfig(echojwt.Config{
		ContextKey: handler.ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.VerifyToken(c.Request().Context(), token)
		},
		// store failures during verification stay 500s; everything else is a 401
		ErrorHandler: func(c echo.Context, err error) error {
			var appErr *apperrors.Error
			if errors.As(err, &appErr) && appErr.Kind == apperrors.KindInternal {
				return appErr
			}
			return apperrors.Unauthenticated(apperrors.MsgInvalidToken)
		},
	})

	e.GET("/", handler.Health)
	e.GET("/docs", handler.Docs)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authGroup := e.Group("/auth")
	authGroup.POST("/signup", h.Auth.Signup)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/verify", h.Auth.Verify, requireAuth)
	authGroup.POST("/logout", h.Auth.Logout, requireAuth)

	api := e.Group("/api")
	api.GET("/users/:id", h.User.GetUser, requireAuth)

	cohorts := api.Group("/cohorts")
	cohorts.GET("", h.Cohort.List)
	cohorts.POST("", h.Cohort.Create)
	cohorts.GET("/:cohortId", h.Cohort.Get)
	cohorts.PUT("/:cohortId", h.Cohort.Update)
	cohorts.DELETE("/:cohortId", h.Cohort.Delete)

	students := api.Group("/students")
	students.GET("", h.Student.List)
	students.POST("", h.Student.Create)
	students.GET("/cohort/:cohortId", h.Student.ListByCohort)
	students.GET("/:studentId", h.Student.Get)
	students.PUT("/:studentId", h.Student.Update)
	students.DELETE("/:studentId", h.Student.Delete)
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Status >= http.StatusInternalServerError {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("HTTP request")
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Wrap(cv.validator.Struct(i))
}
