package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // entry zone must resolve on minimal images

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/timesheet-reporting/internal/config"
	"github.com/iliyamo/timesheet-reporting/internal/database"
	"github.com/iliyamo/timesheet-reporting/internal/handler"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/report"
	"github.com/iliyamo/timesheet-reporting/internal/repository"
	"github.com/iliyamo/timesheet-reporting/internal/router"
	"github.com/iliyamo/timesheet-reporting/internal/service"
	"github.com/iliyamo/timesheet-reporting/internal/utils"
)

func main() {
	cfg := config.Load() // Load environment config
	loc := cfg.Location()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.DEBUG)
	if cfg.IsProduction() {
		e.Logger.SetLevel(log.INFO)
	}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler

	// ----- infrastructure -----
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		e.Logger.Fatalf("database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		e.Logger.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb, err := config.NewRedisClient()
	if err != nil {
		e.Logger.Warnf("redis unavailable, rate limiting and client cache disabled: %v", err)
	} else {
		defer rdb.Close()
	}

	mediaCfg, err := config.LoadMediaConfig()
	if err != nil {
		e.Logger.Fatal(err)
	}
	store, err := service.NewCloudinaryStore(mediaCfg)
	if err != nil {
		e.Logger.Fatalf("media store: %v", err)
	}

	// ----- services -----
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	clients := repository.NewCachedClients(repository.NewClientRepo(db), rdb, config.LoadCacheConfig())
	entries := repository.NewTimesheetRepo(db)

	hasher := utils.NewHasher(utils.Argon2Params{
		MemoryKiB:   cfg.Argon2MemoryKiB,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: cfg.Argon2Parallelism,
		SaltLen:     utils.DefaultArgon2Params.SaltLen,
		KeyLen:      utils.DefaultArgon2Params.KeyLen,
	})
	codec := utils.NewTokenCodec(cfg.JWTSecret)
	events := service.NewEventPublisher(cfg.RabbitMQURL)

	sessionSvc := service.NewSessionService(users, sessions, codec, hasher, events)
	guard := service.NewGuard(users, sessions, codec, hasher)
	timesheetSvc := service.NewTimesheetService(clients, entries, events, loc)
	mediaSvc := service.NewMediaService(store, events, mediaCfg.ImageFolder, mediaCfg.ReportFolder)
	reportSvc := service.NewReportService(
		report.NewBuilder(os.DirFS(cfg.AssetsDir), loc),
		report.NewChromeRenderer(cfg.ChromePath, cfg.RenderTimeout),
		mediaSvc,
		events,
	)

	// ----- HTTP -----
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Warnf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echomw.CORS())
	e.Use(echomw.Gzip())

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Deps{
		Guard:         guard,
		Auth:          handler.NewAuthHandler(sessionSvc),
		Clients:       handler.NewClientHandler(clients),
		Timesheet:     handler.NewTimesheetHandler(timesheetSvc),
		Upload:        handler.NewUploadHandler(mediaSvc),
		Reports:       handler.NewReportHandler(reportSvc, cfg.RenderTimeout+30*time.Second),
		Redis:         rdb,
		RateLimit:     config.LoadRateLimitConfig(),
		AuthRateLimit: config.LoadAuthRateLimitConfig(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RabbitMQURL != "" {
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.RabbitMQURL, "logs"); err != nil && !errors.Is(err, context.Canceled) {
				e.Logger.Errorf("activity consumer: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		e.Logger.Infof("listening on %s (env=%s, zone=%s)", addr, cfg.Env, loc)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
