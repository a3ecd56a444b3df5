package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"catalogapi/internal/apperr"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
	"catalogapi/internal/view"
)

// ErrExportsDisabled is returned by a nil-store ExportService.
var ErrExportsDisabled = errors.New("exports are disabled")

// SnapshotRef identifies an uploaded catalog snapshot.
type SnapshotRef struct {
	Key       string    `json:"key"`
	Users     int       `json:"users"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// snapshot is the document written to object storage.
type snapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Users       []view.UserView `json:"users"`
}

// ExportService writes projected catalog snapshots to object storage.
type ExportService interface {
	// ExportUsers projects every user, under the same integrity rule as
	// listing, and uploads the result as one JSON document.
	ExportUsers(ctx context.Context) (*SnapshotRef, error)
}

type exportService struct {
	store storage.Storage
	users repository.UserRepository
	ttl   time.Duration
	now   func() time.Time
	opts  options
}

// NewExportService constructs a new ExportService. A nil store yields a
// service whose calls fail with ErrExportsDisabled.
func NewExportService(store storage.Storage, users repository.UserRepository, urlTTL time.Duration, opts ...Option) ExportService {
	return &exportService{
		store: store,
		users: users,
		ttl:   urlTTL,
		now:   time.Now,
		opts:  newOptions(opts),
	}
}

func (s *exportService) ExportUsers(ctx context.Context) (_ *SnapshotRef, err error) {
	ctx, span := tracer.Start(ctx, "ExportService.ExportUsers")
	defer func() { endSpan(span, err) }()

	if s.store == nil {
		return nil, ErrExportsDisabled
	}

	listCtx, cancel := s.opts.withTimeout(ctx)
	g, err := s.users.List(listCtx)
	cancel()
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	views, err := view.Users(g)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	body, err := json.Marshal(snapshot{GeneratedAt: generatedAt, Users: views})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := path.Join("snapshots", "users-"+uuid.NewString()+".json")
	info, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata: map[string]string{
			"generated-at": generatedAt.Format(time.RFC3339),
			"user-count":   strconv.Itoa(len(views)),
		},
	})
	if err != nil {
		return nil, apperr.Storage("upload snapshot", err)
	}
	span.SetAttributes(attribute.String("snapshot.key", info.Key), attribute.Int64("snapshot.size", info.Size))

	url, err := s.store.PresignGet(ctx, info.Key, s.ttl)
	if err != nil {
		// Rollback: an unreachable snapshot is removed.
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, apperr.Storage("presign snapshot", fmt.Errorf("%v; rollback delete failed: %v", err, delErr))
		}
		return nil, apperr.Storage("presign snapshot", err)
	}

	return &SnapshotRef{
		Key:       info.Key,
		Users:     len(views),
		Size:      info.Size,
		URL:       url,
		ExpiresAt: generatedAt.Add(s.ttl),
	}, nil
}
