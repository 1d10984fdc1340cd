package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/godataset/internal/dataset/event"
	"github.com/shandysiswandi/godataset/internal/dataset/inbound"
	"github.com/shandysiswandi/godataset/internal/dataset/store"
	"github.com/shandysiswandi/godataset/internal/dataset/usecase"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godataset/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	EventID   pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil || dep.Goroutine == nil {
		return nil, errors.New("dataset: config, router and goroutine manager are required")
	}

	storage, err := store.NewFileStore(dep.Config.GetString("modules.dataset.dir"))
	if err != nil {
		return nil, err
	}

	if dep.EventID == nil {
		node, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, err
		}
		dep.EventID = node
	}

	bus := event.NewBus(int(dep.Config.GetInt("modules.dataset.events.buffer")))
	consumer := event.NewConsumer(bus, event.AuditLogger{}, event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("modules.dataset.events.workers")),
		MaxRetries:  int(dep.Config.GetInt("modules.dataset.events.max_retries")),
		BaseBackoff: 200 * time.Millisecond,
	})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:        storage,
		Events:       bus,
		Runner:       dep.Goroutine,
		Clock:        nil,
		EventID:      dep.EventID,
		PreviewLimit: int(dep.Config.GetInt("modules.dataset.preview_limit")),
		RootCtx:      dep.Context,
	})

	limiter := pkgrouter.NewLimiter(
		dep.Config.GetFloat("server.rate_limit.rps"),
		int(dep.Config.GetInt("server.rate_limit.burst")),
	)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Config{
		MaxUploadBytes: dep.Config.GetInt("modules.dataset.max_upload_bytes"),
		Upload:         []pkgrouter.Middleware{pkgrouter.MiddlewareRateLimit(limiter)},
	})

	return consumer.Stop, nil
}
