package di

import (
	"context"
	"log/slog"
	"os"
	"time"

	"twir-bot/internal/adapter/feed"
	"twir-bot/internal/adapter/logging"
	"twir-bot/internal/adapter/telegram"
	"twir-bot/internal/adapter/watermark"
	"twir-bot/internal/adapter/web"
	"twir-bot/internal/config"
	"twir-bot/internal/digest"
	"twir-bot/internal/domain/ports"
	"twir-bot/internal/usecase"
)

func provideSlogLogger(cfg *config.Config) *slog.Logger {
	return logging.NewSlog(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

func provideFetcher(cfg *config.Config, logger ports.Logger) *web.Fetcher {
	return web.NewFetcher(cfg.RequestTimeout, logger)
}

func provideIssueSource(cfg *config.Config, fetcher ports.PageFetcher) ports.IssueSource {
	if cfg.IndexSource == config.SourceRSS {
		return feed.NewSource(fetcher, cfg.FeedURL)
	}
	return web.NewIndexSource(fetcher, cfg.IndexURL)
}

func provideExtractor(logger ports.Logger) *digest.Extractor {
	return digest.NewExtractor(logger, digest.DefaultExtractorOptions())
}

func provideNotifier(cfg *config.Config, logger ports.Logger) ports.Notifier {
	return telegram.NewBot(cfg.TelegramAPIURL, cfg.TelegramBotToken, cfg.TelegramChatID, cfg.RequestTimeout, logger)
}

func provideWatermarkStore(cfg *config.Config, logger ports.Logger) (ports.WatermarkStore, func(), error) {
	switch cfg.WatermarkBackend {
	case config.BackendRedis:
		client, err := watermark.NewRedisClient(watermark.RedisConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { client.Close() }
		return watermark.NewRedisStore(client, cfg.WatermarkKey, logger), cleanup, nil

	case config.BackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()

		pool, err := watermark.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := watermark.NewPostgresStore(ctx, pool, cfg.WatermarkKey, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		path := watermark.DefaultPath(cfg.ConfigDir)
		logger.Info(context.Background(), "using watermark file", "path", path)
		return watermark.NewFileStore(path, logger), func() {}, nil
	}
}

func provideDeliveryConfig(cfg *config.Config) usecase.IssueDeliveryConfig {
	return usecase.IssueDeliveryConfig{
		ForwardTo: cfg.ForwardTo,
		DryRun:    cfg.Dev,
	}
}

func provideSchedule(cfg *config.Config) string {
	return cfg.ScheduleCron
}

func provideRunTimeout(cfg *config.Config) time.Duration {
	return cfg.RunTimeout
}
