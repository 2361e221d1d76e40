package ask_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/clipstash/pkg/core/ask"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

func strPtr(s string) *string { return &s }

func TestParseNewClip(t *testing.T) {
	req, err := ask.ParseNewClip(ask.Fields{
		Content:  "hello",
		Title:    strPtr("greeting"),
		Expires:  "2030-01-01T00:00:00Z",
		Password: strPtr("secret"),
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", req.Content.IntoInner())
	assert.Equal(t, "greeting", *req.Title.IntoInner())
	assert.NotNil(t, req.Expires.IntoInner())
	assert.True(t, req.Password.IsProtected())
}

func TestParseNewClip_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fields ask.Fields
		want   error
	}{
		{name: "empty content", fields: ask.Fields{Content: "  "}, want: domain.ErrEmptyContent},
		{name: "bad expiry", fields: ask.Fields{Content: "x", Expires: "soon"}, want: domain.ErrTimeConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ask.ParseNewClip(tt.fields)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseNewClip_PasswordStates(t *testing.T) {
	absent, err := ask.ParseNewClip(ask.Fields{Content: "x"})
	require.NoError(t, err)
	assert.False(t, absent.Password.IsSet())

	empty, err := ask.ParseNewClip(ask.Fields{Content: "x", Password: strPtr("")})
	require.NoError(t, err)
	assert.True(t, empty.Password.IsSet())
	assert.False(t, empty.Password.IsProtected())
}

func TestParseUpdateClip_KeepsTarget(t *testing.T) {
	req, err := ask.ParseUpdateClip("abc123", ask.Fields{Content: "new"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", req.ShortCode.String())

	_, err = ask.ParseUpdateClip("", ask.Fields{Content: "new"})
	assert.ErrorIs(t, err, domain.ErrInvalidShortCode)
}

func TestParseGetClip(t *testing.T) {
	req, err := ask.ParseGetClip("abc123", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc123", req.ShortCode.String())
	assert.Nil(t, req.Password)

	_, err = ask.ParseGetClip("bad code", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidShortCode)
}
