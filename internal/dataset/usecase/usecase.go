package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgerror"
	"github.com/shandysiswandi/godataset/internal/pkg/pkguid"
)

type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (entity.StoredFile, error)
	Load(ctx context.Context, filename string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.DatasetUploadedEvent) error
}

type Runner interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store        Store
	Events       EventPublisher
	Runner       Runner
	Clock        Clock
	EventID      pkguid.NumberID
	PreviewLimit int
	RootCtx      context.Context
}

type Usecase struct {
	store        Store
	events       EventPublisher
	runner       Runner
	clock        Clock
	eventID      pkguid.NumberID
	previewLimit int
	rootCtx      context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	limit := dep.PreviewLimit
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	return &Usecase{
		store:        dep.Store,
		events:       dep.Events,
		runner:       dep.Runner,
		clock:        clock,
		eventID:      dep.EventID,
		previewLimit: limit,
		rootCtx:      root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// PreviewLimit is the limit used when a caller does not ask for one.
func (u *Usecase) PreviewLimit() int {
	return u.previewLimit
}

func (u *Usecase) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	if u.store == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	file, err := u.store.Save(ctx, filename, r)
	if err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "dataset stored", "filename", file.Filename, "bytes", file.Size)
	u.publishUploaded(file)

	return UploadResult{Filename: file.Filename, Status: entity.UploadStatusUploaded}, nil
}

func (u *Usecase) List(ctx context.Context) (ListResult, error) {
	names, err := u.store.List(ctx)
	if err != nil {
		return ListResult{}, normalizeErr(err)
	}
	if names == nil {
		names = []string{}
	}

	return ListResult{Datasets: names}, nil
}

// Summary loads filename and summarizes it. Unknown files and unparsable
// content come back in SummaryResult.Err; the returned error is reserved for
// invalid filenames and storage failures.
func (u *Usecase) Summary(ctx context.Context, filename string, previewLimit int) (SummaryResult, error) {
	if previewLimit < 0 {
		return SummaryResult{}, pkgerror.NewInvalidInput(errors.New("preview_limit must not be negative"))
	}

	data, err := u.store.Load(ctx, filename)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return SummaryResult{Filename: filename, Err: err}, nil
	}
	if err != nil {
		return SummaryResult{}, normalizeErr(err)
	}

	summary, err := Summarize(data, previewLimit)
	if err != nil {
		slog.WarnContext(ctx, "dataset is not a readable table", "filename", filename, "error", err)
		return SummaryResult{Filename: filename, Err: err}, nil
	}

	return SummaryResult{Filename: filename, Summary: summary}, nil
}

func (u *Usecase) publishUploaded(file entity.StoredFile) {
	if u.events == nil || u.runner == nil || u.eventID == nil {
		return
	}

	event := entity.DatasetUploadedEvent{
		EventID:    u.eventID.Generate(),
		Filename:   file.Filename,
		Size:       file.Size,
		UploadedAt: u.clock.Now().Unix(),
	}

	u.runner.Go(u.rootCtx, "publish dataset uploaded", func(ctx context.Context) error {
		if err := u.events.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish event", "filename", event.Filename, "event_id", event.EventID, "error", err)
		}
		return nil
	})
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return err
	}
	return pkgerror.NewServer(err)
}
