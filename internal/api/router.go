package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/devshowcase/showcase-api/internal/api/handler"
	"github.com/devshowcase/showcase-api/internal/api/middleware"
	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
	"github.com/devshowcase/showcase-api/internal/realtime"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth        ports.AuthService
	Projects    ports.ProjectService
	Comments    ports.CommentService
	Engagements ports.EngagementService
	Categories  ports.CategoryService
	Admin       ports.AdminService
	Hub         *realtime.Hub
	Notifier    ports.CommentNotifier
	Checks      map[string]handler.Check

	CORSOrigins []string
	Logger      zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. They default
	// to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	// Docs mounts the swagger UI at /docs/*.
	Docs bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "showcase",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || p == "/ws" || strings.HasPrefix(p, "/health")
		},
	}))

	requireAuth := middleware.Auth(d.Auth)
	optionalAuth := middleware.OptionalAuth(d.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, requireAuth)
	auth.PUT("/profile", authHandler.UpdateProfile, requireAuth)
	auth.POST("/change-password", authHandler.ChangePassword, requireAuth)

	// --- Projects ---
	projectHandler := handler.NewProjectHandler(d.Projects)
	projects := e.Group("/projects")
	projects.GET("", projectHandler.List, optionalAuth)
	projects.GET("/featured", projectHandler.Featured, optionalAuth)
	projects.GET("/authors", projectHandler.Authors, optionalAuth)
	projects.GET("/:id", projectHandler.Get, optionalAuth)
	projects.POST("", projectHandler.Create, requireAuth)
	projects.POST("/tags", projectHandler.SuggestTags, requireAuth)
	projects.PUT("/:id", projectHandler.Update, requireAuth)
	projects.DELETE("/:id", projectHandler.Delete, requireAuth)

	// --- Comments ---
	commentHandler := handler.NewCommentHandler(d.Comments, d.Notifier)
	comments := e.Group("/comments")
	comments.GET("/:projectId", commentHandler.List, optionalAuth)
	comments.POST("/:projectId", commentHandler.Add, requireAuth)
	comments.PUT("/:id", commentHandler.Edit, requireAuth)
	comments.DELETE("/:id", commentHandler.Delete, requireAuth)

	// --- Likes & bookmarks ---
	engagementHandler := handler.NewEngagementHandler(d.Engagements)
	likes := e.Group("/likes")
	likes.GET("/:projectId", engagementHandler.LikeStatus, optionalAuth)
	likes.POST("/:projectId", engagementHandler.Like, requireAuth)
	likes.DELETE("/:projectId", engagementHandler.Unlike, requireAuth)

	bookmarks := e.Group("/bookmarks", requireAuth)
	bookmarks.GET("", engagementHandler.Bookmarks)
	bookmarks.POST("/:projectId", engagementHandler.Bookmark)
	bookmarks.DELETE("/:projectId", engagementHandler.Unbookmark)

	// --- Categories ---
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	e.GET("/categories", categoryHandler.List)

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(d.Admin, d.Projects, d.Comments)
	admin := e.Group("/admin", requireAuth, adminOnly)
	admin.DELETE("/comments/:id", adminHandler.DeleteComment)
	admin.PUT("/projects/feature/:id", adminHandler.Feature)
	admin.PUT("/projects/unfeature/:id", adminHandler.Unfeature)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/users", adminHandler.Users)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/reports", adminHandler.Dashboard)

	// --- Realtime ---
	if d.Hub != nil {
		realtimeHandler := handler.NewRealtimeHandler(d.Auth, d.Projects, d.Hub, d.CORSOrigins, d.Logger)
		e.GET("/ws", realtimeHandler.Connect)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	if d.Docs {
		e.GET("/docs/*", echoSwagger.WrapHandler)
	}

	return e
}
