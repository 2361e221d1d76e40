package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/clipstash/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/clipstash/pkg/config"
	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/dbid"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

func memoryURL() string {
	return "file:" + dbid.New().String() + "?mode=memory&cache=shared"
}

func newRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	db, err := sqlite.New(context.Background(), memoryURL(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewSQLiteRepository(db, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestExportImport_RoundTripKeepsPassword(t *testing.T) {
	ctx := context.Background()
	source := newRepo(t)

	req, err := ask.ParseNewClip(ask.Fields{Content: "secret", Title: strPtr("t"), Password: strPtr("pw")})
	require.NoError(t, err)
	created, err := source.Create(ctx, req)
	require.NoError(t, err)

	clips, err := source.Dump(ctx)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, clips))
	assert.Contains(t, buf.String(), `"password": "$2`)

	target := newRepo(t)
	imported, skipped, err := importRecords(ctx, target, bytes.NewReader(buf.Bytes()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 0, skipped)

	restored, err := target.Get(ctx, created.ShortCode())
	require.NoError(t, err)
	assert.Equal(t, created.ClipID(), restored.ClipID())
	assert.ErrorIs(t, restored.Access(created.Posted().IntoInner(), nil), domain.ErrPasswordRequired)
	assert.NoError(t, restored.Access(created.Posted().IntoInner(), strPtr("pw")))

	imported, skipped, err = importRecords(ctx, target, bytes.NewReader(buf.Bytes()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 1, skipped)
}

func TestImport_SkipsInvalidRecords(t *testing.T) {
	repo := newRepo(t)
	records := []record{
		{ClipID: "not-a-uuid", ShortCode: "abc", Content: "x", Posted: 1700000000},
		{ClipID: dbid.New().String(), ShortCode: "abc", Content: "   ", Posted: 1700000000},
		{ClipID: dbid.New().String(), ShortCode: "abc", Content: "x", Password: strPtr("plaintext"), Posted: 1700000000},
		{ClipID: dbid.New().String(), ShortCode: "good", Content: "x", Posted: 1700000000},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)

	imported, skipped, err := importRecords(context.Background(), repo, bytes.NewReader(data), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 3, skipped)
}

func TestImport_SkipsHitCountBeyondStorageRange(t *testing.T) {
	repo := newRepo(t)
	data := `[
		{"clip_id": "` + dbid.New().String() + `", "shortcode": "big", "content": "x", "posted": 1700000000, "hits": 18446744073709551615},
		{"clip_id": "` + dbid.New().String() + `", "shortcode": "small", "content": "x", "posted": 1700000000, "hits": 9223372036854775807}
	]`

	imported, skipped, err := importRecords(context.Background(), repo, strings.NewReader(data), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	clips, err := repo.Dump(context.Background())
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, "small", clips[0].ShortCode().String())
	assert.Equal(t, uint64(math.MaxInt64), clips[0].Hits().IntoInner())
}

func TestImport_RejectsMalformedFile(t *testing.T) {
	_, _, err := importRecords(context.Background(), newRepo(t), strings.NewReader("{"), zap.NewNop())
	assert.Error(t, err)
}

func TestRootCmd_ExportImportPurge(t *testing.T) {
	dir := t.TempDir()
	dbPath := "file:" + filepath.Join(dir, "clips.db")

	seed, err := sqlite.New(context.Background(), dbPath, 1)
	require.NoError(t, err)
	repo := sqlite.NewSQLiteRepository(seed, zap.NewNop())
	req, err := ask.ParseNewClip(ask.Fields{Content: "stale", Expires: "2001-01-01T00:00:00Z"})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	run := func(args ...string) string {
		cfg := &config.Config{DatabaseURL: dbPath, DBMaxOpenConns: 1, AppEnv: "test", LogLevel: "error"}
		cmd := newRootCmd(cfg)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		return out.String()
	}

	exported := run("export")
	exportFile := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(exportFile, []byte(exported), 0o600))
	assert.Contains(t, exported, `"content": "stale"`)

	assert.Contains(t, run("purge"), "purged 1 expired clips")
	assert.Contains(t, run("import", "--file", exportFile), "imported 1 clips, skipped 0")
}
