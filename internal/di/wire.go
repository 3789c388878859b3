//go:build wireinject

package di

import (
	"github.com/google/wire"

	"twir-bot/internal/adapter/logging"
	"twir-bot/internal/adapter/web"
	"twir-bot/internal/app"
	"twir-bot/internal/config"
	"twir-bot/internal/domain/ports"
	"twir-bot/internal/usecase"
)

// InitializeApp wires the application components together.
func InitializeApp() (*app.App, func(), error) {
	wire.Build(
		config.Load,
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideFetcher,
		wire.Bind(new(ports.PageFetcher), new(*web.Fetcher)),
		provideIssueSource,
		provideExtractor,
		provideNotifier,
		provideWatermarkStore,
		provideDeliveryConfig,
		usecase.NewIssueDelivery,
		wire.Bind(new(app.Job), new(*usecase.IssueDelivery)),
		app.New,
		provideSchedule,
		provideRunTimeout,
	)
	return nil, nil, nil
}
