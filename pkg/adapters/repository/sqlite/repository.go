package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
	"github.com/wadjakorntonsri/clipstash/pkg/ports"
	"go.uber.org/zap"
)

const maxCreateAttempts = 5

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type SQLiteRepository struct {
	db       *Database
	clock    domain.Clock
	generate func() domain.ShortCode
	log      *zap.Logger
}

type Option func(*SQLiteRepository)

// WithClock sets the clock used to stamp new clips.
func WithClock(c domain.Clock) Option {
	return func(r *SQLiteRepository) { r.clock = c }
}

// WithShortCodeGenerator replaces the random short code generator.
func WithShortCodeGenerator(fn func() domain.ShortCode) Option {
	return func(r *SQLiteRepository) { r.generate = fn }
}

func NewSQLiteRepository(db *Database, log *zap.Logger, opts ...Option) *SQLiteRepository {
	r := &SQLiteRepository{
		db:       db,
		clock:    domain.RealClock{},
		generate: domain.GenerateShortCode,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SQLiteRepository) Get(ctx context.Context, shortCode domain.ShortCode) (*domain.Clip, error) {
	return r.getClip(ctx, r.db.Pool(), GetClipFromShortCode(shortCode))
}

// Retrieve reads the clip, applies the access policy and increments the hit
// counter in one transaction. Denied reads are not counted.
func (r *SQLiteRepository) Retrieve(ctx context.Context, req ask.GetClip, now time.Time) (*domain.Clip, error) {
	cmd := GetClipFromAsk(req)

	var clip *domain.Clip
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		c, err := r.getClip(ctx, tx, cmd)
		if err != nil {
			return err
		}
		if err := c.Access(now, req.Password); err != nil {
			return err
		}
		hits, err := incrementHits(ctx, tx, cmd)
		if err != nil {
			return err
		}
		clip = c.WithHits(hits)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// Create inserts a new clip. A short code collision is retried with a fresh
// translation of the request.
func (r *SQLiteRepository) Create(ctx context.Context, req ask.NewClip) (*domain.Clip, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		cmd := NewClipFromAsk(req, r.clock, r.generate)

		clip, err := r.insert(ctx, cmd)
		if err == nil {
			return clip, nil
		}
		if isUniqueViolation(err) {
			r.log.Debug("short code collision, retrying",
				zap.String("shortcode", cmd.shortcode),
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrStorage, domain.ErrCodeExhausted)
}

func (r *SQLiteRepository) insert(ctx context.Context, cmd NewClip) (*domain.Clip, error) {
	query := `INSERT INTO clips (clip_id, shortcode, content, title, expires, password, posted, hits)
			  VALUES (?, ?, ?, ?, ?, ?, ?, 0)
			  RETURNING ` + clipColumns

	var row clipRow
	err := row.scan(r.db.Pool().QueryRowContext(ctx, query,
		cmd.clipID, cmd.shortcode, cmd.content,
		toNullString(cmd.title), toNullInt64(cmd.expires), toNullString(cmd.password),
		cmd.posted,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, storageErr("insert clip", err)
	}
	return r.convert(row)
}

// Update replaces content, title, expiry and (when supplied) password. The
// short code, clip id, posting time and hit count are left untouched.
func (r *SQLiteRepository) Update(ctx context.Context, req ask.UpdateClip) (*domain.Clip, error) {
	cmd := UpdateClipFromAsk(req)
	query := `UPDATE clips SET content = ?, title = ?, expires = ?, password = COALESCE(?, password)
			  WHERE shortcode = ?
			  RETURNING ` + clipColumns

	var row clipRow
	err := row.scan(r.db.Pool().QueryRowContext(ctx, query,
		cmd.content, toNullString(cmd.title), toNullInt64(cmd.expires), toNullString(cmd.password),
		cmd.shortcode,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("update clip", err)
	}
	return r.convert(row)
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.Pool().ExecContext(ctx,
		`DELETE FROM clips WHERE expires IS NOT NULL AND expires < ?`, before.Unix())
	if err != nil {
		return 0, storageErr("delete expired clips", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete expired clips", err)
	}
	return n, nil
}

// Dump returns every stored clip. A row that fails validation fails the dump.
func (r *SQLiteRepository) Dump(ctx context.Context) ([]*domain.Clip, error) {
	rows, err := r.db.Pool().QueryContext(ctx, `SELECT `+clipColumns+` FROM clips ORDER BY posted ASC`)
	if err != nil {
		return nil, storageErr("dump clips", err)
	}
	defer rows.Close()

	var clips []*domain.Clip
	for rows.Next() {
		var row clipRow
		if err := row.scan(rows); err != nil {
			return nil, storageErr("scan clip", err)
		}
		clip, err := r.convert(row)
		if err != nil {
			return nil, fmt.Errorf("clip %s: %w", row.ShortCode, err)
		}
		clips = append(clips, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("dump clips", err)
	}
	return clips, nil
}

// Restore inserts a previously exported clip with its identity and counters.
func (r *SQLiteRepository) Restore(ctx context.Context, clip *domain.Clip) error {
	row, err := rowFromDomain(clip)
	if err != nil {
		return err
	}
	_, err = r.db.Pool().ExecContext(ctx,
		`INSERT INTO clips (`+clipColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ClipID, row.ShortCode, row.Content, row.Title,
		row.Expires, row.Password, row.Posted, row.Hits,
	)
	if isUniqueViolation(err) {
		return domain.ErrCodeExists
	}
	if err != nil {
		return storageErr("restore clip", err)
	}
	return nil
}

func (r *SQLiteRepository) getClip(ctx context.Context, q queryer, cmd GetClip) (*domain.Clip, error) {
	var row clipRow
	err := row.scan(q.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE shortcode = ?`, cmd.shortcode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get clip", err)
	}
	return r.convert(row)
}

func (r *SQLiteRepository) convert(row clipRow) (*domain.Clip, error) {
	clip, err := row.toDomain()
	if err != nil {
		r.log.Warn("stored clip failed validation",
			zap.String("clip_id", row.ClipID),
			zap.String("shortcode", row.ShortCode),
			zap.Error(err))
		return nil, err
	}
	return clip, nil
}

// incrementHits is a single read-modify-write statement, so concurrent
// retrievals cannot lose counts.
func incrementHits(ctx context.Context, q queryer, cmd GetClip) (domain.Hits, error) {
	var hits int64
	err := q.QueryRowContext(ctx,
		`UPDATE clips SET hits = hits + 1 WHERE shortcode = ? RETURNING hits`, cmd.shortcode,
	).Scan(&hits)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hits{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Hits{}, storageErr("increment hits", err)
	}
	return domain.HitsFromStored(hits)
}

// Ensure interface compliance
var _ ports.ClipRepository = (*SQLiteRepository)(nil)
