package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/clipstash/pkg/core/dbid"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newClip(t *testing.T, expires *time.Time, password domain.Password) *domain.Clip {
	t.Helper()

	sc, err := domain.ParseShortCode("abc123")
	require.NoError(t, err)
	content, err := domain.NewContent("hello")
	require.NoError(t, err)

	return domain.AssembleClip(
		domain.ClipIDFrom(dbid.New()),
		sc,
		content,
		domain.NewTitle(nil),
		domain.NewExpires(expires),
		password,
		domain.NewPosted(now.Add(-24*time.Hour)),
		domain.NewHits(0),
	)
}

func strPtr(s string) *string { return &s }

func TestClip_Access_Public(t *testing.T) {
	c := newClip(t, nil, domain.NoPassword())

	assert.NoError(t, c.Access(now, nil))
	assert.NoError(t, c.Access(now, strPtr("ignored")))
}

func TestClip_Access_Expired(t *testing.T) {
	past := now.Add(-time.Minute)
	pw, err := domain.NewPassword("secret")
	require.NoError(t, err)

	assert.ErrorIs(t, newClip(t, &past, domain.NoPassword()).Access(now, nil), domain.ErrExpired)
	assert.ErrorIs(t, newClip(t, &past, pw).Access(now, strPtr("secret")), domain.ErrExpired,
		"expiry must deny access even with the right password")
}

func TestClip_Access_Password(t *testing.T) {
	pw, err := domain.NewPassword("secret")
	require.NoError(t, err)
	c := newClip(t, nil, pw)

	assert.ErrorIs(t, c.Access(now, nil), domain.ErrPasswordRequired)
	assert.ErrorIs(t, c.Access(now, strPtr("")), domain.ErrPasswordRequired)
	assert.ErrorIs(t, c.Access(now, strPtr("wrong")), domain.ErrWrongPassword)
	assert.NoError(t, c.Access(now, strPtr("secret")))
}

func TestClip_WithHits(t *testing.T) {
	c := newClip(t, nil, domain.NoPassword())
	counted := c.WithHits(domain.NewHits(3))

	assert.Equal(t, uint64(3), counted.Hits().IntoInner())
	assert.Equal(t, uint64(0), c.Hits().IntoInner())
	assert.Equal(t, c.ClipID(), counted.ClipID())
}

func TestClip_MarshalJSON_OmitsHash(t *testing.T) {
	pw, err := domain.NewPassword("secret")
	require.NoError(t, err)
	c := newClip(t, nil, pw)

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "abc123", decoded["shortcode"])
	assert.Equal(t, "hello", decoded["content"])
	assert.Equal(t, true, decoded["protected"])
	assert.NotContains(t, string(b), *pw.IntoInner())
}
