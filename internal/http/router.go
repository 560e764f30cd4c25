package http

import (
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/sessions"

	"github.com/azrova/azrovadash/internal/config"
)

// RateLimiter is a simple in-memory sliding-window limiter.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow records the request and reports whether it fits in the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// Auth endpoints: at most 10 attempts per IP per minute.
var authRateLimiter = NewRateLimiter(10, time.Minute)

// Server creation: at most 5 attempts per user per hour, enough for retries
// after quota rejections without letting anyone hammer the panel.
var createRateLimiter = NewRateLimiter(5, time.Hour)

type Server struct {
	router  *gin.Engine
	handler *Handler
	cfg     *config.Config
}

func NewServer(cfg *config.Config, handler *Handler) (*Server, error) {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(handler.InternalError))

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	router.Use(sessions.Sessions(cfg.Session.CookieName, store))
	router.Use(ExposeSessionStore(store, cfg.Session.CookieName, gorilla.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAgeSeconds,
		HttpOnly: true,
	}))

	router.LoadHTMLGlob(filepath.Join(cfg.App.TemplatesDir, "*.html"))
	router.Static("/static", filepath.Join(filepath.Dir(cfg.App.TemplatesDir), "static"))

	s := &Server{
		router:  router,
		handler: handler,
		cfg:     cfg,
	}

	s.setupRoutes()
	return s, nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.Session.Secret)

	var store sessions.Store
	if cfg.Session.RedisAddr != "" {
		redisStore, err := redis.NewStore(10, "tcp", cfg.Session.RedisAddr, cfg.Session.RedisPassword, secret)
		if err != nil {
			return nil, err
		}
		store = redisStore
	} else {
		store = cookie.NewStore(secret)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAgeSeconds,
		HttpOnly: true,
	})
	return store, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "azrovadash",
		})
	})

	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})

	// Public pages. The auth posts share a per-IP limiter.
	s.router.GET("/login", s.handler.LoginPage)
	s.router.POST("/login", RateLimitMiddleware(authRateLimiter), s.handler.Login)
	s.router.GET("/register", s.handler.RegisterPage)
	s.router.POST("/register", RateLimitMiddleware(authRateLimiter), s.handler.Register)
	s.router.GET("/logout", s.handler.Logout)

	// Protected pages behind the session gate.
	protected := s.router.Group("/")
	protected.Use(AuthRequired())
	{
		protected.GET("/dashboard", s.handler.Dashboard)
		protected.GET("/credentials", s.handler.Credentials)
		protected.GET("/links", s.handler.Links)
		protected.GET("/profile", s.handler.Profile)

		protected.GET("/servers", s.handler.ListServers)
		protected.GET("/servers/create", s.handler.CreateServerPage)
		protected.POST("/servers/create", RateLimitMiddleware(createRateLimiter), s.handler.CreateServer)
		protected.DELETE("/servers/:id", s.handler.DeleteServer)
		protected.GET("/servers/:id/status", s.handler.ServerStatus)

		protected.GET("/settings", s.handler.SettingsPage)
		protected.POST("/settings/profile", s.handler.UpdateProfile)
		protected.POST("/settings/password", s.handler.ChangePassword)
		protected.POST("/settings/delete", s.handler.DeleteAccount)

		protected.GET("/users", s.handler.ListUsers)

		admin := protected.Group("/users")
		admin.Use(AdminRequired())
		{
			admin.POST("/:id/toggle-role", s.handler.ToggleRole)
			admin.DELETE("/:id", s.handler.AdminDeleteUser)
		}
	}

	s.router.NoRoute(s.handler.NotFound)
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
