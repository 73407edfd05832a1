package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tell-platform/complaint-system/docs"
	"github.com/tell-platform/complaint-system/internal/api/handler"
	"github.com/tell-platform/complaint-system/internal/api/middleware"
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
	"github.com/tell-platform/complaint-system/internal/infrastructure/http/handlers"
)

// bodyLimit leaves room for multipart overhead around a 5 MiB image.
const bodyLimit = "6M"

// Services are the use cases the HTTP layer dispatches to.
type Services struct {
	Auth       ports.AuthService
	Existence  ports.ExistenceChecker
	Sessions   ports.SessionVerifier
	Complaints ports.ComplaintService
	Profiles   ports.ProfileService
	Catalog    ports.CatalogService
	Reports    ports.ReportService
	Media      ports.MediaService
}

type Options struct {
	Log zerolog.Logger
	// Development exposes internal error text in 500 responses.
	Development bool
	Readiness   *handlers.ReadinessHandler
	// Registry receives the HTTP metrics. Nil means the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log, opts.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "complaints",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	authn := middleware.Authenticate(svc.Sessions)
	owner := middleware.IsOwner()
	admin := middleware.IsAdmin()
	authority := middleware.IsAuthority()

	// Groups carry no middleware. Group-level middleware would also guard
	// echo's catch-all for unknown paths under the prefix and hide the 404.

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup, middleware.IsEmailExist(svc.Existence))
	auth.POST("/activate", authHandler.Activate)
	auth.GET("/activate", authHandler.Activate)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/pro/new", authHandler.CreateAuthority,
		authn, owner, admin, middleware.IsUsernameExist(svc.Existence), middleware.IsEmailExist(svc.Existence))
	auth.POST("/pro/signin", authHandler.AuthoritySignIn)
	auth.PUT("/password/reset", authHandler.ResetPassword, authn, owner)

	// --- Profile routes ---
	profileHandler := handler.NewProfileHandler(svc.Profiles)
	profile := e.Group("/profile")
	profile.GET("/my/:userId", profileHandler.GetUser, authn, owner)
	profile.PUT("/my/update", profileHandler.UpdateUser, authn, owner)
	profile.DELETE("/my/:userId", profileHandler.DeleteUser, authn, owner)
	profile.GET("/pro/:userId", profileHandler.GetAuthority, authn, owner, authority)
	profile.PUT("/pro/update", profileHandler.UpdateAuthority, authn, owner, authority)
	profile.DELETE("/users/:userId/:targetId", profileHandler.RemoveUser, authn, owner, admin)
	profile.DELETE("/authorities/:userId/:targetId", profileHandler.RemoveAuthority, authn, owner, admin)

	// --- Complaint routes ---
	complaintHandler := handler.NewComplaintHandler(svc.Complaints)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog, svc.Reports)
	complaints := e.Group("/complaints")
	complaints.POST("/new", complaintHandler.Create, authn, owner)
	complaints.PATCH("/update/status", complaintHandler.UpdateStatus,
		authn, owner, middleware.RequireRole(domain.RoleAuthority, domain.RoleAdmin))
	complaints.PATCH("/update/upvote", complaintHandler.Upvote, authn, owner)
	complaints.PATCH("/update/comment", complaintHandler.Comment, authn, owner)
	complaints.GET("/get/one/:complaintId", complaintHandler.GetOne, authn)
	complaints.GET("/get/my/:userId", complaintHandler.GetMine, authn, owner)
	complaints.GET("/get/category/:userId/:categoryId", complaintHandler.GetByCategory, authn, owner)
	complaints.GET("/get/city/:userId", complaintHandler.GetByCity, authn, owner)
	complaints.GET("/get/district/:userId", complaintHandler.GetByDistrict, authn, owner, authority)
	complaints.GET("/get/authority/:userId", complaintHandler.GetForAuthority, authn, owner, authority)
	complaints.GET("/get/admin/:userId", complaintHandler.GetAllForAdmin, authn, owner, admin)
	complaints.GET("/get/filter/:userId", complaintHandler.GetByFilter, authn, owner, admin)
	complaints.GET("/confirm/:userId/:complaintId", complaintHandler.Confirm, authn, owner)
	complaints.DELETE("/rm/:userId/:complaintId", complaintHandler.Delete, authn, owner, admin)
	complaints.GET("/lookup", catalogHandler.Lookup, authn)
	complaints.GET("/report/:userId", catalogHandler.Report, authn, owner, admin)

	// --- Catalog routes ---
	categories := e.Group("/categories")
	categories.GET("", catalogHandler.ListCategories, authn)
	categories.POST("", catalogHandler.CreateCategory, authn, owner, admin)
	categories.PUT("/:userId/:categoryId", catalogHandler.UpdateCategory, authn, owner, admin)
	categories.DELETE("/:userId/:categoryId", catalogHandler.DeleteCategory, authn, owner, admin)

	// --- Media routes ---
	mediaHandler := handler.NewMediaHandler(svc.Media)
	e.POST("/media/add", mediaHandler.Upload, authn)
	e.GET("/media/:filename", mediaHandler.Serve)

	// --- Health checks, metrics and docs (no auth required) ---
	readiness := opts.Readiness
	if readiness == nil {
		readiness = handlers.NewReadinessHandler()
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness) // liveness  – is the process alive?
	e.GET("/health/ready", readiness.Readiness)            // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
