package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "github.com/bintangmas1/app-point/internal/middleware"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/backup"
	"github.com/bintangmas1/app-point/internal/config"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/database"
	"github.com/bintangmas1/app-point/internal/demodata"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/session"
	"github.com/bintangmas1/app-point/internal/tracing"
	"github.com/bintangmas1/app-point/internal/version"
	"github.com/bintangmas1/app-point/internal/worker"
	"github.com/bintangmas1/app-point/static"

	adminhttp "github.com/bintangmas1/app-point/internal/http/admin"
	webhttp "github.com/bintangmas1/app-point/internal/http/web"
)

// Demo mode signs in with these when no bootstrap admin is configured.
const (
	demoAdminUsername = "admin"
	demoAdminPassword = "admin1234"
)

type Server struct {
	Echo     *echo.Echo
	HTTP     *http.Server
	DB       *sqlx.DB
	Sessions session.Store

	closers []func(context.Context) error
}

// Close releases what Build opened, in reverse order.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// SweepSessions drops expired in-memory sessions every interval until ctx
// is done. Redis expires its keys itself.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	mem, ok := s.Sessions.(*session.MemoryStore)
	if !ok {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := mem.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *Server, err error) {
	s := &Server{}
	defer func() {
		if err != nil {
			s.Close(context.Background())
		}
	}()

	//
	// Tracing
	//
	shutdownTracing, err := tracing.Init(ctx, cfg.OTelEndpoint, version.Version, logger)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, shutdownTracing)

	//
	// Database
	//
	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	isNewDB := false
	if dialect == database.SQLite {
		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			isNewDB = true
			logger.Info("creating database", zap.String("path", cfg.DBPath), zap.String("source", cfg.DBPathSource))
		} else {
			logger.Info("opening database", zap.String("path", cfg.DBPath), zap.String("source", cfg.DBPathSource))
		}
	} else {
		logger.Info("connecting to postgres")
	}

	db, err := database.Open(dialect, cfg.DSN())
	if err != nil {
		return nil, err
	}
	s.DB = db
	s.closers = append(s.closers, func(context.Context) error { return db.Close() })

	if err := database.RunMigrations(db, logger); err != nil {
		return nil, err
	}

	//
	// Domain services
	//
	customerSvc := customer.NewService(db)
	workerSvc := worker.NewService(db)
	logSvc := activitylog.NewService(db)
	ledgerSvc := ledger.NewService(customerSvc, logger, ledger.WithMaxRetries(cfg.LedgerMaxRetries))

	admin := cfg.BootstrapAdmin
	if cfg.DemoMode && admin.Username == "" {
		admin = config.BootstrapAdmin{Name: "Administrator", Username: demoAdminUsername, Password: demoAdminPassword}
	}
	created, err := workerSvc.EnsureBootstrapAdmin(ctx, admin.Name, admin.Username, admin.Password)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("bootstrap super admin created", zap.String("username", admin.Username))
	}

	// Demo data only goes into a database file created by this run
	if cfg.DemoMode {
		if isNewDB {
			if err := demodata.Load(ctx, db, workerSvc); err != nil {
				return nil, fmt.Errorf("failed to load demo data: %w", err)
			}
			logger.Info("demo data loaded",
				zap.String("worker", demodata.DemoUsername),
				zap.String("password", demodata.DemoPassword))
		} else {
			logger.Warn("demo mode ignored, database already exists")
		}
	}

	//
	// Sessions
	//
	switch cfg.SessionStore {
	case "redis":
		client, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		s.Sessions = session.NewRedisStore(client)
	default:
		s.Sessions = session.NewMemoryStore()
	}

	//
	// Handlers
	//
	adminSvc := adminhttp.NewService(
		customerSvc,
		workerSvc,
		logSvc,
		ledgerSvc,
		s.Sessions,
		adminhttp.Settings{SessionTTL: cfg.SessionTTL, Locale: cfg.Locale},
		logger,
	)
	backups := backup.NewService(db, filepath.Join(filepath.Dir(cfg.DBPath), "backups"), logger)
	adminHandler := adminhttp.NewHandler(adminSvc, backups, logger)
	webHandler := webhttp.NewHandler(adminSvc, logger, webhttp.Options{
		CookieSecure: cfg.CookieSecure,
		Locale:       cfg.Locale,
	})

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Middleware
	e.Use(mwsvc.RequestLogger(logger))
	e.Use(mwecho.Recover())
	e.Use(mwsvc.Metrics())

	loginLimit := mwsvc.RateLimit(mwsvc.NewLoginLimiter(cfg.LoginRateLimit))
	superAdmin := mwsvc.RequireSuperAdmin()

	// JSON API
	apiGroup := e.Group("/api")
	adminhttp.RegisterRoutes(apiGroup, adminHandler, mwsvc.APIAuth(s.Sessions, logger), loginLimit, superAdmin)

	// Web UI
	webGroup := e.Group("/web")
	webGroup.Use(mwsvc.Theme())   // Read theme cookie into context
	webGroup.Use(mwsvc.Version()) // Add app version to context
	webGroup.Use(mwsvc.WebAuth(s.Sessions, logger))
	webGroup.Use(mwecho.CSRFWithConfig(mwecho.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteStrictMode,
		Skipper: func(c echo.Context) bool {
			// Skip CSRF for login page (user not authenticated yet)
			return strings.HasPrefix(c.Path(), "/web/login")
		},
	}))
	webGroup.Use(mwsvc.CSRF()) // Copy CSRF token to request context for templates
	webhttp.RegisterRoutes(webGroup, webHandler, loginLimit, superAdmin)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/web/")
	})

	// Static files (embedded)
	jsFS, _ := fs.Sub(static.Files, "js")
	e.GET("/static/js/*", echo.WrapHandler(http.StripPrefix("/static/js/", http.FileServer(http.FS(jsFS)))))
	cssFS, _ := fs.Sub(static.Files, "css")
	e.GET("/static/css/*", echo.WrapHandler(http.StripPrefix("/static/css/", http.FileServer(http.FS(cssFS)))))

	//
	// HTTP server
	//
	s.Echo = e
	s.HTTP = &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}
