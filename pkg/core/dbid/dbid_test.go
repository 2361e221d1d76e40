package dbid_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/clipstash/pkg/core/dbid"
)

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"0b5a1a7c-7f3e-4a55-9f55-2f6b8f6f1c11",
		"00000000-0000-0000-0000-000000000000",
		"f47ac10b-58cc-4372-a567-0e02b2c3d479",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			id, err := dbid.Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, id.String())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{"", "not-a-uuid", "0b5a1a7c-7f3e-4a55-9f55"} {
		_, err := dbid.Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestNew_IsUniqueAndNotNil(t *testing.T) {
	a := dbid.New()
	b := dbid.New()

	assert.NotEqual(t, a, b)
	assert.False(t, a.IsNil())
}

func TestNil(t *testing.T) {
	assert.True(t, dbid.Nil().IsNil())
	assert.Equal(t, dbid.Nil(), dbid.Nil())
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", dbid.Nil().String())
}

func TestJSON(t *testing.T) {
	id := dbid.New()

	b, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(b))

	var decoded dbid.DbID
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, id, decoded)
}
