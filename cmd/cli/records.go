package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/ports"
)

// record is the export format. Unlike the API view it keeps the password
// hash so that protected clips survive a round trip.
type record struct {
	ClipID    string  `json:"clip_id"`
	ShortCode string  `json:"shortcode"`
	Content   string  `json:"content"`
	Title     *string `json:"title,omitempty"`
	Expires   *int64  `json:"expires,omitempty"`
	Password  *string `json:"password,omitempty"`
	Posted    int64   `json:"posted"`
	Hits      uint64  `json:"hits"`
}

func recordFromClip(c *domain.Clip) (record, error) {
	s, err := c.Store()
	if err != nil {
		return record{}, err
	}
	return record{
		ClipID:    s.ClipID,
		ShortCode: s.ShortCode,
		Content:   s.Content,
		Title:     s.Title,
		Expires:   s.Expires,
		Password:  s.Password,
		Posted:    s.Posted,
		Hits:      uint64(s.Hits),
	}, nil
}

// toClip re-validates every field; export files are untrusted input.
func (r record) toClip() (*domain.Clip, error) {
	if r.Hits > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", domain.ErrCountRange, r.Hits)
	}
	return domain.StoredClip{
		ClipID:    r.ClipID,
		ShortCode: r.ShortCode,
		Content:   r.Content,
		Title:     r.Title,
		Expires:   r.Expires,
		Password:  r.Password,
		Posted:    r.Posted,
		Hits:      int64(r.Hits),
	}.Clip()
}

func writeRecords(w io.Writer, clips []*domain.Clip) error {
	records := make([]record, 0, len(clips))
	for _, c := range clips {
		rec, err := recordFromClip(c)
		if err != nil {
			return fmt.Errorf("export %s: %w", c.ShortCode(), err)
		}
		records = append(records, rec)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// importRecords restores each record, skipping invalid ones and short codes
// already in the store.
func importRecords(ctx context.Context, repo ports.ClipRepository, r io.Reader, log *zap.Logger) (imported, skipped int, err error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, 0, fmt.Errorf("decode import: %w", err)
	}

	for _, rec := range records {
		clip, err := rec.toClip()
		if err != nil {
			log.Warn("skipping invalid record", zap.String("shortcode", rec.ShortCode), zap.Error(err))
			skipped++
			continue
		}
		err = repo.Restore(ctx, clip)
		switch {
		case errors.Is(err, domain.ErrCodeExists):
			log.Info("skipping existing code", zap.String("shortcode", rec.ShortCode))
			skipped++
		case err != nil:
			return imported, skipped, fmt.Errorf("restore %s: %w", rec.ShortCode, err)
		default:
			imported++
		}
	}
	return imported, skipped, nil
}
