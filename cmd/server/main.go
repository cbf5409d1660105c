package main

import (
	"flag"
	"log"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stocknotes/internal/app/router"
	backupadapters "stocknotes/internal/feature/backup/adapters"
	backuphandler "stocknotes/internal/feature/backup/transport/handler"
	backupusecase "stocknotes/internal/feature/backup/usecase"
	notesadapters "stocknotes/internal/feature/notes/adapters"
	noteshandler "stocknotes/internal/feature/notes/transport/handler"
	notesusecase "stocknotes/internal/feature/notes/usecase"
	symbolsadapters "stocknotes/internal/feature/symbols/adapters"
	symbolshandler "stocknotes/internal/feature/symbols/transport/handler"
	symbolsusecase "stocknotes/internal/feature/symbols/usecase"
	targetsadapters "stocknotes/internal/feature/targets/adapters"
	targetshandler "stocknotes/internal/feature/targets/transport/handler"
	targetsusecase "stocknotes/internal/feature/targets/usecase"
	templatesadapters "stocknotes/internal/feature/templates/adapters"
	templateshandler "stocknotes/internal/feature/templates/transport/handler"
	templatesusecase "stocknotes/internal/feature/templates/usecase"
	"stocknotes/internal/platform/cache"
	"stocknotes/internal/platform/config"
	platformdb "stocknotes/internal/platform/db"
	"stocknotes/internal/platform/export"
	"stocknotes/internal/platform/externalapi/yahoo"
	platformhttp "stocknotes/internal/platform/http"
	"stocknotes/internal/platform/imaging"
	platformredis "stocknotes/internal/platform/redis"
	"stocknotes/internal/shared/ratelimiter"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// db
	db, err := platformdb.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := platformdb.Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Redis（任意。接続できない場合はキャッシュなしで起動する）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled {
		if tmp, err := platformredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			slog.Warn("Redis unavailable, running without quote cache", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	noteRepo := notesadapters.NewNoteRepository(db)
	tagRepo := notesadapters.NewTagRepository(db)
	symbolRepo := symbolsadapters.NewSymbolRepository(db)
	targetRepo := targetsadapters.NewTargetRepository(db)
	templateRepo := templatesadapters.NewTemplateRepository(db)
	backupRepo := backupadapters.NewBackupRepository(db)

	// 外部プロバイダ + Redisキャッシュでラップ
	quoteCfg := yahoo.DefaultConfig()
	if cfg.Quotes.ChartBaseURL != "" {
		quoteCfg.ChartBaseURL = cfg.Quotes.ChartBaseURL
	}
	if cfg.Quotes.SearchBaseURL != "" {
		quoteCfg.SearchBaseURL = cfg.Quotes.SearchBaseURL
	}
	if cfg.Quotes.Timeout > 0 {
		quoteCfg.Timeout = cfg.Quotes.Timeout
	}
	quotes := yahoo.NewYahooQuotes(quoteCfg, platformhttp.NewHTTPClient(quoteCfg.Timeout))
	cachedQuotes := cache.NewCachingQuoteRepository(rdb, cfg.Redis.TTL, quotes, "quotes")

	var limiter ratelimiter.RateLimiterInterface = ratelimiter.NopLimiter{}
	if cfg.Quotes.RateLimitPerMin > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.Quotes.RateLimitPerMin, time.Minute)
	}

	// Usecase
	processor := imaging.NewProcessor(cfg.Imaging.MaxDimension, cfg.Imaging.MaxBytes)
	noteUC := notesusecase.NewNoteUsecase(noteRepo, processor, cfg.Notes.AutosaveDelay)
	tagUC := notesusecase.NewTagUsecase(tagRepo, noteRepo)
	symbolUC := symbolsusecase.NewSymbolUsecase(symbolRepo, cachedQuotes, noteUC, limiter)
	targetUC := targetsusecase.NewTargetUsecase(targetRepo, symbolUC)
	templateUC := templatesusecase.NewTemplateUsecase(templateRepo)
	backupUC := backupusecase.NewBackupUsecase(backupRepo)
	exportUC := notesusecase.NewExportUsecase(noteRepo, export.NewHTMLRenderer())

	// Handler
	handlers := router.Handlers{
		Notes:     noteshandler.NewNoteHandler(noteUC),
		Tags:      noteshandler.NewTagHandler(tagUC, noteUC),
		Exports:   noteshandler.NewExportHandler(exportUC),
		Symbols:   symbolshandler.NewSymbolHandler(symbolUC),
		Targets:   targetshandler.NewTargetHandler(targetUC),
		Templates: templateshandler.NewTemplateHandler(templateUC),
		Backup:    backuphandler.NewBackupHandler(backupUC),
	}

	// ルータ生成
	r := router.NewRouter(handlers)

	slog.Info("starting server", "addr", cfg.Server.Addr, "db_driver", cfg.Database.Driver)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
