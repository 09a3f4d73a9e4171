//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cory-johannsen/combatsim/internal/config"
)

func initializeApp(cfg config.Config) (*app, func(), error) {
	wire.Build(
		provideLogger,
		provideSource,
		provideRoller,
		provideWorld,
		provideScripts,
		provideClassifier,
		provideSimConfig,
		provideRunner,
		provideApp,
	)
	return nil, nil, nil
}
