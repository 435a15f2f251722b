//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"opencaption/internal/app/metrics"
	"opencaption/internal/config"
)

var infrastructureSet = wire.NewSet(
	provideLogger,
	provideStore,
	provideLayout,
	provideLocker,
	provideMirror,
	providePool,
	metrics.New,
)

var collaboratorSet = wire.NewSet(
	provideExtractor,
	provideTranscriber,
	provideEncoder,
	provideProgress,
	provideFetcher,
)

// InitializeApplication builds every component from cfg. The returned
// cleanup closes the database and the Redis client.
func InitializeApplication(ctx context.Context, cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		infrastructureSet,
		collaboratorSet,
		provideOptions,
		provideOrchestrator,
		NewApplication,
	)
	return nil, nil, nil
}
