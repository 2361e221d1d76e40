package services

import (
	"context"
	"errors"

	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/ports"
	"go.uber.org/zap"
)

type ClipService struct {
	repo  ports.ClipRepository
	clock domain.Clock
	log   *zap.Logger
}

func NewClipService(repo ports.ClipRepository, clock domain.Clock, log *zap.Logger) *ClipService {
	return &ClipService{repo: repo, clock: clock, log: log}
}

// GetClip returns the clip if it is readable now, counting the hit.
func (s *ClipService) GetClip(ctx context.Context, req ask.GetClip) (*domain.Clip, error) {
	clip, err := s.repo.Retrieve(ctx, req, s.clock.Now())
	if err != nil {
		if isDenial(err) {
			s.log.Debug("clip access denied",
				zap.String("shortcode", req.ShortCode.String()),
				zap.Error(err))
		} else {
			s.log.Error("get clip failed",
				zap.String("shortcode", req.ShortCode.String()),
				zap.Error(err))
		}
		return nil, err
	}
	return clip, nil
}

func (s *ClipService) NewClip(ctx context.Context, req ask.NewClip) (*domain.Clip, error) {
	clip, err := s.repo.Create(ctx, req)
	if err != nil {
		s.log.Error("create clip failed", zap.Error(err))
		return nil, err
	}
	s.log.Info("clip created",
		zap.String("shortcode", clip.ShortCode().String()),
		zap.Bool("protected", clip.Password().IsProtected()))
	return clip, nil
}

func (s *ClipService) UpdateClip(ctx context.Context, req ask.UpdateClip) (*domain.Clip, error) {
	clip, err := s.repo.Update(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("update clip failed",
				zap.String("shortcode", req.ShortCode.String()),
				zap.Error(err))
		}
		return nil, err
	}
	s.log.Info("clip updated", zap.String("shortcode", clip.ShortCode().String()))
	return clip, nil
}

// PurgeExpired deletes every clip whose expiry has passed.
func (s *ClipService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		s.log.Error("purge expired clips failed", zap.Error(err))
		return 0, err
	}
	s.log.Info("expired clips purged", zap.Int64("count", n))
	return n, nil
}

func isDenial(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrExpired) ||
		errors.Is(err, domain.ErrPasswordRequired) ||
		errors.Is(err, domain.ErrWrongPassword)
}

// Ensure interface compliance
var _ ports.ClipService = (*ClipService)(nil)
