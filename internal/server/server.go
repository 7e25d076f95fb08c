package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lmoreno/pbigen/internal/azdo"
	"github.com/lmoreno/pbigen/internal/core"
	"github.com/lmoreno/pbigen/internal/figma"
	"github.com/lmoreno/pbigen/internal/llm"
	"github.com/lmoreno/pbigen/internal/logger"
	"github.com/lmoreno/pbigen/internal/session"
)

// Config holds the HTTP server settings.
type Config struct {
	// AllowedOrigins configures CORS for the browser frontend.
	AllowedOrigins []string

	// SessionTTL is how long a review session stays alive between requests.
	SessionTTL time.Duration

	// Azure is the board connection used by the push endpoint. Pushing is
	// rejected when it is not configured.
	Azure azdo.Config
}

// Server exposes the synthesizer over HTTP for the form frontend.
type Server struct {
	router  *gin.Engine
	adapter llm.Adapter
	synth   *core.Synthesizer
	store   *session.Store
	azure   azdo.Config
	figma   *figma.Client
}

// New assembles the router with all endpoints registered.
func New(adapter llm.Adapter, cfg Config) *Server {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = time.Hour
	}

	s := &Server{
		adapter: adapter,
		synth:   core.NewSynthesizer(adapter),
		store:   session.NewStore(cfg.SessionTTL),
		azure:   cfg.Azure,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/models", s.handleModels)
		api.POST("/generate", s.handleGenerate)
		api.GET("/sessions/:id", s.handleGetSession)
		api.PATCH("/sessions/:id/items/:idx", s.handleUpdateItem)
		api.GET("/sessions/:id/items/:idx/html", s.handleItemHTML)
		api.POST("/sessions/:id/push", s.handlePush)
		api.POST("/figma/export", s.handleFigmaExport)
	}

	s.router = router
	return s
}

// WithFigma wires a Figma export client, enabling /api/figma/export.
func (s *Server) WithFigma(client *figma.Client) *Server {
	s.figma = client
	return s
}

// Router returns the underlying handler for http.Server or tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	}
}
