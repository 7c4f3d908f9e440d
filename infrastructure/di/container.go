package di

import (
	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/render"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/config"
	"github.com/fredgeoO/novel-learning-tools/infrastructure/filestore"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *filestore.Store
	Watcher   *filestore.Watcher
	Colors    *render.ColorAssigner
	Converter *render.Converter
}
