package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

// ClipRepository defines storage operations for clips
type ClipRepository interface {
	// Retrieve applies the access policy at now and counts the hit, atomically.
	Retrieve(ctx context.Context, req ask.GetClip, now time.Time) (*domain.Clip, error)
	// Get reads a clip without access checks or hit counting.
	Get(ctx context.Context, shortCode domain.ShortCode) (*domain.Clip, error)
	Create(ctx context.Context, req ask.NewClip) (*domain.Clip, error)
	Update(ctx context.Context, req ask.UpdateClip) (*domain.Clip, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// For migration
	Dump(ctx context.Context) ([]*domain.Clip, error)
	Restore(ctx context.Context, clip *domain.Clip) error
}

// ClipService defines the business logic operations
type ClipService interface {
	GetClip(ctx context.Context, req ask.GetClip) (*domain.Clip, error)
	NewClip(ctx context.Context, req ask.NewClip) (*domain.Clip, error)
	UpdateClip(ctx context.Context, req ask.UpdateClip) (*domain.Clip, error)
	PurgeExpired(ctx context.Context) (int64, error)
}
