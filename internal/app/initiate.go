package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/rs/cors"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godataset/internal/pkg/pkglog"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godataset/internal/pkg/pkguid"
)

// Banner is returned by GET /.
const Banner = "Dataset Benchmarking API"

// Defaults holds the value of every key the application reads, so a partial
// config file is enough to boot.
func Defaults() map[string]any {
	return map[string]any{
		"tz":                                 "UTC",
		"log.level":                          "info",
		"server.address.http":                ":8000",
		"server.timeout.read_header":         "10s",
		"server.timeout.read":                "60s",
		"server.timeout.write":               "60s",
		"server.timeout.idle":                "120s",
		"server.cors.allowed_origins":        []string{"*"},
		"server.rate_limit.rps":              5.0,
		"server.rate_limit.burst":            10,
		"goroutine.max":                      100,
		"modules.dataset.enabled":            true,
		"modules.dataset.dir":                "uploaded_datasets",
		"modules.dataset.preview_limit":      100,
		"modules.dataset.max_upload_bytes":   64 << 20,
		"modules.dataset.events.buffer":      512,
		"modules.dataset.events.workers":     2,
		"modules.dataset.events.max_retries": 0,
	}
}

// ConfigPath resolves the config file location: explicit path first, then
// ./config/config.yaml when LOCAL=true, else /config/config.yaml.
func ConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() {
	cfg, err := pkgconfig.NewViper(ConfigPath(a.configPath), Defaults())
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

func (a *App) initLogging() {
	pkglog.InitLogging(pkglog.Options{Level: a.config.GetString("log.level")})
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))
	a.uuid = pkguid.NewUUID()

	node, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = node
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid, Banner)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("server.cors.allowed_origins"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: a.config.GetDuration("server.timeout.read_header"),
		ReadTimeout:       a.config.GetDuration("server.timeout.read"),
		WriteTimeout:      a.config.GetDuration("server.timeout.write"),
		IdleTimeout:       a.config.GetDuration("server.timeout.idle"),
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
