package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"checkit-dashboard/internal/background"
	"checkit-dashboard/internal/config"
	"checkit-dashboard/internal/handlers"
	"checkit-dashboard/internal/metrics"
	"checkit-dashboard/internal/middleware"
	"checkit-dashboard/internal/seed"
	"checkit-dashboard/internal/service"
	"checkit-dashboard/internal/watcher"
	"checkit-dashboard/pkg/cache"
	"checkit-dashboard/pkg/icons"
	"checkit-dashboard/pkg/logger"
	"checkit-dashboard/pkg/utils"
	"checkit-dashboard/pkg/validator"
)

const toggleStateSweepInterval = 10 * time.Minute

type Options struct {
	TemplatesDir string
	StaticDir    string
}

type Application struct {
	cfg     *config.Config
	options Options

	cache *cache.Cache

	services serviceContainer
	handlers handlerContainer

	scheduler   *background.Scheduler
	navWatcher  *watcher.NavigationWatcher
	rateLimiter *middleware.RateLimitManager

	ctx    context.Context
	cancel context.CancelFunc

	router *gin.Engine
	server *http.Server
}

type serviceContainer struct {
	Icons      *icons.Set
	Toggles    service.ToggleStore
	Navigation *service.NavigationService
	Page       *service.PageService
}

type handlerContainer struct {
	Template   *handlers.TemplateHandler
	Navigation *handlers.NavigationHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if opts.TemplatesDir == "" {
		opts.TemplatesDir = cfg.TemplatesDir
	}
	if opts.TemplatesDir == "" {
		opts.TemplatesDir = "./templates"
	}
	if opts.StaticDir == "" {
		opts.StaticDir = cfg.StaticDir
	}
	if opts.StaticDir == "" {
		opts.StaticDir = "./static"
	}

	validator.Init()
	if cfg.EnableMetrics {
		metrics.Init()
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		cfg:     cfg,
		options: opts,
		ctx:     ctx,
		cancel:  cancel,
	}

	app.initCache()

	if err := app.initServices(); err != nil {
		cancel()
		return nil, err
	}

	if err := app.initHandlers(); err != nil {
		cancel()
		return nil, err
	}

	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

// Run starts the background jobs and serves HTTP until Shutdown.
func (a *Application) Run() error {
	a.startBackground()

	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"navigation":  a.services.Navigation.Source(),
	})

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Application) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			shutdownErr = err
		}
	}

	a.cancel()

	if a.navWatcher != nil {
		if err := a.navWatcher.Close(); err != nil {
			logger.Error(err, "Failed to close navigation watcher", nil)
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Failed to stop background scheduler", nil)
		}
	}

	if a.rateLimiter != nil {
		_ = a.rateLimiter.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	return shutdownErr
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) Navigation() *service.NavigationService {
	return a.services.Navigation
}

func (a *Application) initCache() {
	if !a.cfg.EnableRedis {
		a.cache, _ = cache.NewCache("", false)
		return
	}

	redisCache, err := cache.NewCache(a.cfg.RedisURL, true)
	if err != nil {
		logger.Error(err, "Redis unavailable, navigation state will be kept in memory", map[string]interface{}{"addr": a.cfg.RedisURL})
		a.cache, _ = cache.NewCache("", false)
		return
	}
	a.cache = redisCache
}

func (a *Application) initServices() error {
	iconSet := icons.NewSet()

	var toggles service.ToggleStore
	if a.cache != nil && a.cache.Enabled() {
		toggles = service.NewRedisToggleStore(a.cache, a.cfg.SessionTTL)
	} else {
		toggles = service.NewMemoryToggleStore(a.cfg.SessionTTL)
	}

	navigationService, err := service.NewNavigationService(seed.DefaultNavigation(), a.cfg.NavConfigFile, iconSet, toggles)
	if err != nil {
		return fmt.Errorf("failed to initialize navigation: %w", err)
	}

	pageService := service.NewPageService()
	seed.EnsureDefaultPages(pageService)
	seed.EnsureNavigationPages(pageService, navigationService.Entries())

	a.services = serviceContainer{
		Icons:      iconSet,
		Toggles:    toggles,
		Navigation: navigationService,
		Page:       pageService,
	}
	return nil
}

func (a *Application) initHandlers() error {
	staticDir := a.options.StaticDir
	assetModTime := func(path string) (time.Time, error) {
		relative := strings.TrimPrefix(path, "/static/")
		info, err := os.Stat(filepath.Join(staticDir, filepath.FromSlash(relative)))
		if err != nil {
			return time.Time{}, err
		}
		return info.ModTime(), nil
	}

	templates, err := utils.LoadTemplates(a.options.TemplatesDir, utils.GetTemplateFuncs(assetModTime, a.services.Icons.HTML))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	logger.Info("Templates loaded successfully", map[string]interface{}{"dir": a.options.TemplatesDir})

	templateHandler, err := handlers.NewTemplateHandler(a.services.Navigation, a.services.Page, a.cfg, templates)
	if err != nil {
		return fmt.Errorf("failed to initialize template handler: %w", err)
	}

	a.handlers = handlerContainer{
		Template:   templateHandler,
		Navigation: handlers.NewNavigationHandler(a.services.Navigation),
	}
	return nil
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager(a.ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.cfg, a.rateLimiter))
	router.Use(middleware.SecurityHeadersMiddleware(a.cfg.SiteUserAvatar))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"time":       time.Now().Format(time.RFC3339),
			"navigation": a.services.Navigation.Source(),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.Static("/static", a.options.StaticDir)

	pages := router.Group("")
	pages.Use(middleware.SessionMiddleware(a.cfg.SessionCookie, a.cfg.SessionTTL, a.cfg.IsProduction()))
	{
		for _, path := range a.services.Page.Paths() {
			if reservedRoute(path) {
				logger.Warn("Skipping page that shadows a built-in route", map[string]interface{}{"path": path})
				continue
			}
			pages.GET(path, a.handlers.Template.RenderPage)
		}
		pages.POST("/nav/toggle/*key", a.handlers.Template.ToggleNavigation)

		api := pages.Group("/api/v1/navigation")
		{
			api.GET("", a.handlers.Navigation.Tree)
			api.GET("/config", a.handlers.Navigation.Config)
			api.POST("/toggle", a.handlers.Navigation.Toggle)
		}
	}

	// Paths added by a navigation reload have no static route yet.
	renderPage := a.handlers.Template.RenderPage
	notFound := a.handlers.Template.RenderNotFound
	router.NoRoute(middleware.SessionMiddleware(a.cfg.SessionCookie, a.cfg.SessionTTL, a.cfg.IsProduction()), func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Route not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		renderPage(c)
	})

	a.router = router
}

func reservedRoute(path string) bool {
	switch path {
	case "/health", "/metrics", "/static", "/api", "/nav/toggle":
		return true
	}
	for _, prefix := range []string{"/static/", "/api/", "/nav/toggle/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// startBackground launches the scheduler with the state sweep and, when
// enabled, the navigation file watcher.
func (a *Application) startBackground() {
	a.scheduler = background.NewScheduler(background.SchedulerConfig{WorkerCount: a.cfg.BackgroundWorkers})
	a.scheduler.Start(a.ctx)

	if err := a.scheduler.Every(toggleStateSweepInterval, watcher.SweepJob(a.services.Navigation)); err != nil {
		logger.Error(err, "Failed to schedule navigation state sweep", nil)
	}

	if !a.cfg.NavWatch {
		return
	}

	reload := watcher.ReloadJob(navigationReloader{navigation: a.services.Navigation, pages: a.services.Page})
	navWatcher, err := watcher.NewNavigationWatcher(
		a.cfg.NavConfigFile,
		time.Duration(a.cfg.NavReloadDebounceMs)*time.Millisecond,
		func() {
			if err := a.scheduler.ScheduleUnique(reload); err != nil && !errors.Is(err, background.ErrJobAlreadyScheduled) {
				logger.Error(err, "Failed to schedule navigation reload", nil)
			}
		},
	)
	if err != nil {
		logger.Error(err, "Navigation hot reload disabled", map[string]interface{}{"file": a.cfg.NavConfigFile})
		return
	}

	a.navWatcher = navWatcher
	go navWatcher.Start(a.ctx)
}

// navigationReloader reloads the navigation file and registers placeholder
// pages for links the new configuration introduced.
type navigationReloader struct {
	navigation *service.NavigationService
	pages      *service.PageService
}

func (r navigationReloader) Reload() error {
	if err := r.navigation.Reload(); err != nil {
		return err
	}
	if added := seed.EnsureNavigationPages(r.pages, r.navigation.Entries()); added > 0 {
		logger.Info("Registered pages for new navigation links", map[string]interface{}{"pages": added})
	}
	return nil
}
