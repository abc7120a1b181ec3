package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/veriscribe/veriscribe/logging"
	"github.com/veriscribe/veriscribe/model"
)

// Options configure the server.
type Options struct {
	Logger logging.Logger
	// UploadDir is where stored files land; defaults to "uploads" under the
	// working directory.
	UploadDir string
	// PublicBaseURL prefixes the URLs returned for stored files, e.g.
	// "http://localhost:8000". Empty produces relative URLs.
	PublicBaseURL string
}

// Server is the analysis backend. It owns no entity state; every route is a
// pure function of the request and the model.
type Server struct {
	model     model.Model
	logger    logging.Logger
	uploadDir string
	baseURL   string
	engine    *gin.Engine
}

// New creates a Server backed by the given model.
func New(m model.Model, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:    logging.NoOpLogger{},
		UploadDir: "uploads",
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		model:     m,
		logger:    opts.Logger,
		uploadDir: opts.UploadDir,
		baseURL:   strings.TrimRight(opts.PublicBaseURL, "/"),
	}
	s.engine = s.buildEngine()
	return s
}

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithUploadDir sets the stored-file directory.
func WithUploadDir(dir string) func(o *Options) {
	return func(o *Options) { o.UploadDir = dir }
}

// WithPublicBaseURL sets the URL prefix for stored-file references.
func WithPublicBaseURL(u string) func(o *Options) {
	return func(o *Options) { o.PublicBaseURL = u }
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Veriscribe API is running"})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "model": s.model.Info().Name})
	})

	api := engine.Group("/api")
	{
		api.POST("/check-ai", s.handleCheckAI)
		api.POST("/chat", s.handleChat)
		api.POST("/generate-title", s.handleGenerateTitle)
		api.POST("/upload", s.handleUpload)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/files", s.handleStoreFile)
		api.POST("/extract", s.handleExtract)
	}
	engine.Static("/uploads", s.uploadDir)

	return engine
}

// Handler exposes the server as an http.Handler for embedding and tests.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return err
	}
	s.logger.Info("analysis server listening", "addr", addr, "model", s.model.Info().Name)
	return s.engine.Run(addr)
}

// fail writes the backend error shape: {"detail": ...}.
func fail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}
