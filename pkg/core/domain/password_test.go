package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/clipstash/pkg/core/domain"
)

func TestNewPassword_Verify(t *testing.T) {
	p, err := domain.NewPassword("secret")
	require.NoError(t, err)
	assert.True(t, p.IsProtected())
	assert.NotEqual(t, "secret", *p.IntoInner(), "raw secret must not be stored")

	ok, err := p.Verify("secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Verify("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPassword_EmptyVersusAbsent(t *testing.T) {
	empty, err := domain.NewPassword("")
	require.NoError(t, err)
	absent := domain.NoPassword()

	assert.True(t, empty.IsSet())
	assert.False(t, empty.IsProtected())
	require.NotNil(t, empty.IntoInner())
	assert.Equal(t, "", *empty.IntoInner())

	assert.False(t, absent.IsSet())
	assert.False(t, absent.IsProtected())
	assert.Nil(t, absent.IntoInner())

	ok, err := absent.Verify("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewPassword_TooLong(t *testing.T) {
	_, err := domain.NewPassword(strings.Repeat("a", 100))
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestPasswordFromStored(t *testing.T) {
	hashed, err := domain.NewPassword("secret")
	require.NoError(t, err)

	p, err := domain.PasswordFromStored(hashed.IntoInner())
	require.NoError(t, err)
	ok, err := p.Verify("secret")
	require.NoError(t, err)
	assert.True(t, ok)

	p, err = domain.PasswordFromStored(nil)
	require.NoError(t, err)
	assert.False(t, p.IsSet())

	empty := ""
	p, err = domain.PasswordFromStored(&empty)
	require.NoError(t, err)
	assert.True(t, p.IsSet())
	assert.False(t, p.IsProtected())

	plain := "secret"
	_, err = domain.PasswordFromStored(&plain)
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}
