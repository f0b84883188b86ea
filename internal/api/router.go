package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ananses3m/shop-api/internal/api/handler"
	"github.com/ananses3m/shop-api/internal/api/middleware"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

// Verifier resolves both session and password-reset tokens.
type Verifier interface {
	ports.SessionVerifier
	ports.ResetVerifier
}

// HTTPOptions are the transport settings of the router.
type HTTPOptions struct {
	CORSOrigins   []string
	BodyLimit     string
	AuthRateLimit int // requests per minute per IP on login and reset; 0 disables
}

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Auth           ports.AuthService
	Verifier       Verifier
	Users          ports.UserService
	Resets         ports.PasswordResetService
	Products       ports.ProductService
	Orders         ports.OrderService
	Uploads        ports.UploadService
	Payments       ports.PaymentService
	PayPalClientID string
	HealthChecks   map[string]handler.HealthCheck
	Logger         zerolog.Logger
	HTTP           HTTPOptions
	// Registerer receives the HTTP request metrics. Defaults to the global
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "shop",
		Registerer: registerer,
	}))
	if len(deps.HTTP.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: deps.HTTP.CORSOrigins,
		}))
	}
	if deps.HTTP.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(deps.HTTP.BodyLimit))
	}

	// --- Operational endpoints ---
	health := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API is running...")
	})

	// --- Handlers and guards ---
	users := handler.NewUserHandler(deps.Auth, deps.Users, deps.Resets)
	products := handler.NewProductHandler(deps.Products)
	orders := handler.NewOrderHandler(deps.Orders)
	relay := handler.NewRelayHandler(deps.Uploads, deps.Payments, deps.PayPalClientID)

	authn := middleware.Auth(deps.Verifier)
	admin := middleware.AdminOnly()
	resetGuard := middleware.ResetToken(deps.Verifier)

	limited := []echo.MiddlewareFunc{}
	if deps.HTTP.AuthRateLimit > 0 {
		limited = append(limited, middleware.RateLimitByIP(deps.HTTP.AuthRateLimit))
	}

	api := e.Group("/api")

	// --- Users ---
	u := api.Group("/users")
	u.POST("", users.Register)
	u.POST("/login", users.Login, limited...)
	u.POST("/resetpassword", users.RequestPasswordReset, limited...)
	u.PUT("/reset/:id", users.ConfirmPasswordReset, resetGuard)
	u.GET("/profile", users.GetProfile, authn)
	u.PUT("/profile", users.UpdateProfile, authn)
	u.GET("", users.ListUsers, authn, admin)
	u.GET("/:id", users.GetUser, authn, admin)
	u.PUT("/:id", users.UpdateUser, authn, admin)
	u.DELETE("/:id", users.DeleteUser, authn, admin)

	// --- Products ---
	p := api.Group("/products")
	p.GET("", products.List)
	p.GET("/top", products.Top)
	p.GET("/:id", products.Get)
	p.POST("", products.Create, authn, admin)
	p.PUT("/:id", products.Update, authn, admin)
	p.DELETE("/:id", products.Delete, authn, admin)
	p.POST("/:id/reviews", products.CreateReview, authn)

	// --- Orders ---
	o := api.Group("/orders", authn)
	o.POST("", orders.Create)
	o.GET("", orders.List, admin)
	o.GET("/myorders", orders.Mine)
	o.GET("/:id", orders.Get)
	o.PUT("/:id/pay", orders.Pay)
	o.PUT("/:id/deliver", orders.Deliver, admin)

	// --- Relays ---
	api.POST("/upload", relay.Upload)
	api.POST("/config/momo", relay.Momo)
	api.GET("/config/paypal", relay.PayPalClientID)

	return e
}

// requestLogger writes one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
