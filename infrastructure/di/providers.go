package di

import (
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/render"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/config"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/filestore"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideStore creates the file-backed graph store
func ProvideStore(cfg *config.Config, logger *zap.Logger) (*filestore.Store, error) {
	return filestore.NewStore(cfg.CacheDir, logger)
}

// ProvideWatcher creates the graph directory change watcher
func ProvideWatcher(store *filestore.Store, logger *zap.Logger) (*filestore.Watcher, error) {
	return filestore.NewWatcher(store, logger)
}

// ProvideColorAssigner creates the category color assigner
func ProvideColorAssigner() *render.ColorAssigner {
	return render.NewColorAssigner()
}

// ProvideConverter creates the document/render format converter
func ProvideConverter(colors *render.ColorAssigner, logger *zap.Logger) *render.Converter {
	return render.NewConverter(colors, logger)
}
