package server

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/config"
	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/internal/service"
	"github.com/ifuryst/beacon/internal/service/notify"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	Config *config.Config
	DB     *gorm.DB
	Router *gin.Engine
	Logger *zap.Logger
	Server *http.Server

	// Services
	Blog     *service.BlogService
	Courses  *service.CourseService
	Jobs     *service.JobService
	Inbox    *service.InboxService
	Taxonomy *service.TaxonomyService
	Auth     *service.AuthService
	Janitor  *service.Janitor

	closers []func() error
}

// NewServer opens the database and the configured notification channels, then builds the router.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := service.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var notifiers notify.Multi
	var closers []func() error
	if cfg.Queue.Enabled {
		queue, err := notify.NewQueueNotifier(&cfg.Queue, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize queue notifier: %w", err)
		}
		notifiers = append(notifiers, queue)
		closers = append(closers, queue.Close)
	}
	if cfg.Mail.Enabled {
		notifiers = append(notifiers, notify.NewMailNotifier(&cfg.Mail))
	}

	var notifier notify.Notifier = notify.Nop{}
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	srv := New(cfg, db, notifier, logger)
	srv.closers = closers
	return srv, nil
}

// New wires services and routes around an existing database.
func New(cfg *config.Config, db *gorm.DB, notifier notify.Notifier, logger *zap.Logger) *Server {
	binding.Validator = service.BindingValidator{}

	timeout := service.QueryTimeout(&cfg.Database)

	jobs := service.NewJobService(db, logger, timeout)
	auth := service.NewAuthService(db, logger, &cfg.Auth, timeout)

	srv := &Server{
		Config:   cfg,
		DB:       db,
		Router:   gin.New(),
		Logger:   logger,
		Blog:     service.NewBlogService(db, logger, timeout),
		Courses:  service.NewCourseService(db, logger, timeout),
		Jobs:     jobs,
		Inbox:    service.NewInboxService(db, logger, jobs, notifier, timeout),
		Taxonomy: service.NewTaxonomyService(db, logger, timeout),
		Auth:     auth,
		Janitor:  service.NewJanitor(&cfg.Scheduler, db, auth, logger),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.Router.Use(gin.Recovery())

	// Request id, echoed back and included in the access log
	s.Router.Use(func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	})

	// Logger middleware
	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\" %v\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
				param.Keys[requestIDKey],
			)
		},
		SkipPaths: []string{"/health"},
	}))

	// CORS middleware
	s.Router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", s.Config.Server.CORSOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		c.Header("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	api := s.Router.Group("/api")
	admin := api.Group("/admin", s.requireAdmin)
	gate := s.requireAdmin

	registerContent(api, admin, gate, &resource[models.BlogPost, *models.BlogPost]{
		path:  "blog",
		svc:   s.Blog,
		input: func() service.Input[models.BlogPost] { return &service.PostInput{} },
	}, s)
	registerContent(api, admin, gate, &resource[models.Course, *models.Course]{
		path:  "courses",
		svc:   s.Courses,
		input: func() service.Input[models.Course] { return &service.CourseInput{} },
	}, s)
	registerContent(api, admin, gate, &resource[models.Job, *models.Job]{
		path:  "jobs",
		svc:   s.Jobs,
		input: func() service.Input[models.Job] { return &service.JobInput{} },
	}, s)

	// Inbox
	api.POST("/contact/submit", s.handleSubmitContact)
	api.POST("/jobs/:key/apply", s.handleApply)
	admin.GET("/contact", s.handleListContacts)
	admin.GET("/contact/:id", s.handleGetContact)
	admin.PATCH("/contact/:id/status", s.handleContactStatus)
	admin.GET("/applications", s.handleListApplications)
	admin.GET("/applications/:id", s.handleGetApplication)
	admin.PATCH("/applications/:id/status", s.handleApplicationStatus)

	// Taxonomy
	api.GET("/categories", s.handleCategories)
	api.POST("/categories", gate, s.handleCreateCategory)
	api.GET("/tags", s.handleTags)
	api.GET("/authors", gate, s.handleAuthors)
	api.POST("/authors", gate, s.handleCreateAuthor)

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/logout", gate, s.handleLogout)
		authGroup.GET("/me", gate, s.handleMe)
	}

	s.Router.NoRoute(s.handleNoRoute)
}

// handleNoRoute serves the single-page app when a static root is configured.
// Unknown API paths always get a JSON 404.
func (s *Server) handleNoRoute(c *gin.Context) {
	root := s.Config.Server.StaticRoot
	p := path.Clean("/" + c.Request.URL.Path)
	if root == "" || strings.HasPrefix(p, "/api/") || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, envelope{Message: "Route not found"})
		return
	}

	fs := http.Dir(root)
	if f, err := fs.Open(p); err == nil {
		st, statErr := f.Stat()
		_ = f.Close()
		if statErr == nil && !st.IsDir() {
			c.FileFromFS(p, fs)
			return
		}
	}
	c.File(filepath.Join(root, "index.html"))
}

func (s *Server) Start(ctx context.Context) error {
	// Start janitor
	if err := s.Janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start janitor: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)

	s.Server = &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.Logger.Info("Starting HTTP server", zap.String("addr", addr))

	if s.Config.Server.CertFile != "" && s.Config.Server.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.Config.Server.CertFile, s.Config.Server.KeyFile)
	}

	return s.Server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop janitor first
	s.Janitor.Stop()

	defer func() {
		for _, closeFn := range s.closers {
			if err := closeFn(); err != nil {
				s.Logger.Warn("Failed to close notifier", zap.Error(err))
			}
		}
	}()

	if s.Server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.Server.Shutdown(shutdownCtx)
}
