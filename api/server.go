package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OldStager01/sentinel-console/api/handlers"
	"github.com/OldStager01/sentinel-console/api/middleware"
	"github.com/OldStager01/sentinel-console/api/web"
	"github.com/OldStager01/sentinel-console/api/websocket"
	_ "github.com/OldStager01/sentinel-console/docs"
	"github.com/OldStager01/sentinel-console/internal/auth"
	"github.com/OldStager01/sentinel-console/internal/client"
	"github.com/OldStager01/sentinel-console/internal/metrics"
	"github.com/OldStager01/sentinel-console/pkg/config"
	"github.com/OldStager01/sentinel-console/pkg/models"
)

// ConsoleManager is what the server needs from the session registry.
type ConsoleManager interface {
	handlers.ConsoleManager
	SubscribeAllEvents() <-chan *models.Event
}

// Dependencies are the collaborators built in main. DB, Runs and Metrics
// are optional; leave them nil (not typed nil) when disabled.
type Dependencies struct {
	Consoles ConsoleManager
	Upstream client.HealthChecker
	DB       handlers.DBChecker
	Runs     handlers.RunStore
	Metrics  *metrics.Metrics
}

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	config      *config.Config
	deps        Dependencies
	authService *auth.Service
	wsHub       *websocket.Hub
	wsBridge    *websocket.EventBridge
}

func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	switch cfg.App.Mode {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	settings := websocket.NewWebSocketSettings(&cfg.WebSocket)
	settings.AllowedOrigins = cfg.API.CORS.AllowedOrigins

	var wsObserver websocket.ClientObserver
	if deps.Metrics != nil {
		wsObserver = deps.Metrics
	}
	wsHub := websocket.NewHub(settings, wsObserver)

	s := &Server{
		router:      router,
		config:      cfg,
		deps:        deps,
		authService: auth.NewService(cfg.Session.TokenSecret, cfg.Session.TokenIssuer, cfg.Session.TokenTTL),
		wsHub:       wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	go wsHub.Run()

	s.wsBridge = websocket.NewEventBridge(wsHub, deps.Consoles.SubscribeAllEvents())
	s.wsBridge.Start()

	return s, nil
}

func (s *Server) setupMiddleware() {
	api := s.config.API

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     api.CORS.AllowedOrigins,
		AllowMethods:     api.CORS.AllowedMethods,
		AllowHeaders:     api.CORS.AllowedHeaders,
		ExposeHeaders:    api.CORS.ExposedHeaders,
		AllowCredentials: api.CORS.AllowCredentials,
	}))
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())

	rateLimiter := middleware.NewRateLimiter(api.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))
	s.router.Use(middleware.RequestSizeLimit(api.MaxBodyBytes))
}

func (s *Server) timeouts() handlers.Timeouts {
	t := handlers.DefaultTimeouts()
	if d := s.config.Diagnostic.RequestTimeout; d > 0 {
		t.Diagnostic = d
	}
	if d := s.config.History.RequestTimeout; d > 0 {
		t.History = d
	}
	if d := s.config.Chat.RequestTimeout; d > 0 {
		t.Chat = d
	}
	return t
}

func (s *Server) setupRoutes() {
	timeouts := s.timeouts()
	consoles := s.deps.Consoles

	healthHandler := handlers.NewHealthHandler(s.deps.Upstream, s.deps.DB)
	pageHandler := handlers.NewPageHandler(consoles, timeouts)
	formHandler := handlers.NewFormHandler(consoles)
	diagnosticHandler := handlers.NewDiagnosticHandler(consoles, timeouts)
	historyHandler := handlers.NewHistoryHandler(consoles, timeouts)
	chatHandler := handlers.NewChatHandler(consoles, timeouts, s.config.Chat.MaxMessageLength)
	runsHandler := handlers.NewRunsHandler(s.deps.Runs)

	// Probes, docs and metrics carry no session.
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.StaticFS("/static", web.Static())

	if s.config.Metrics.Enabled && s.config.Metrics.Port == 0 && s.deps.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	endpointLimiter := middleware.NewEndpointRateLimiter()
	for _, path := range []string{"/diagnostics", "/chat", "/history/refresh", "/api/v1/diagnostics", "/api/v1/chat", "/api/v1/history/refresh"} {
		endpointLimiter.AddEndpoint(http.MethodPost, path, s.config.API.RateBurst, time.Minute)
	}

	session := s.router.Group("/")
	session.Use(middleware.Session(s.authService, middleware.SessionCookie{
		Name:   s.config.Session.CookieName,
		Path:   s.config.Session.CookiePath,
		Secure: s.config.Session.CookieSecure,
	}))
	session.Use(endpointLimiter.Middleware())
	{
		// Server-rendered page and its form posts
		session.GET("/", pageHandler.Render)
		session.POST("/diagnostics", diagnosticHandler.SubmitForm)
		session.POST("/history/search", historyHandler.SearchForm)
		session.POST("/history/page", historyHandler.PageForm)
		session.POST("/history/refresh", historyHandler.RefreshForm)
		session.POST("/chat", chatHandler.SendForm)

		session.GET("/ws", websocket.ServeWebSocket(s.wsHub, func(sessionID string) interface{} {
			return consoles.Get(sessionID).Snapshot()
		}))

		v1 := session.Group("/api/v1")

		v1.GET("/form", formHandler.Get)
		v1.PUT("/form", formHandler.Update)

		v1.POST("/diagnostics", diagnosticHandler.Submit)
		v1.GET("/diagnostics/result", diagnosticHandler.Result)
		v1.GET("/diagnostics/logs", diagnosticHandler.Logs)
		v1.GET("/diagnostics/runs", runsHandler.List)
		v1.GET("/diagnostics/runs/:id", runsHandler.Get)
		v1.GET("/diagnostics/stats", runsHandler.Stats)

		v1.GET("/history", historyHandler.Get)
		v1.POST("/history/search", historyHandler.Search)
		v1.POST("/history/page", historyHandler.Page)
		v1.POST("/history/refresh", historyHandler.Refresh)

		v1.GET("/chat", chatHandler.Transcript)
		v1.POST("/chat", chatHandler.Send)
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	idle := s.config.API.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	s.wsHub.Stop()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

func (s *Server) AuthService() *auth.Service {
	return s.authService
}
