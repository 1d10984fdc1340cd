package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/godataset/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godataset/internal/pkg/pkglog"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godataset/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	configPath string
	config     pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

// New builds the application. An empty configPath selects the default
// location, see initConfig.
func New(configPath string) *App {
	pkglog.InitLogging(pkglog.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:        ctx,
		cancel:     cancel,
		configPath: configPath,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
