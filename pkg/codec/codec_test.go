package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/pkg/codec"
	"github.com/satchel-dev/satchel/pkg/domain"
)

func TestRoundTrip(t *testing.T) {
	shapes := map[string]map[string]any{
		"empty":   {},
		"strings": {"user": "alice", "theme": "dark"},
		"numbers": {"count": float64(42), "ratio": 0.5},
		"bools":   {"admin": true, "guest": false},
		"nested": {
			"profile": map[string]any{
				"name":  "alice",
				"roles": []any{"editor", "admin"},
				"prefs": map[string]any{"pageSize": float64(25)},
			},
		},
	}

	for name, data := range shapes {
		t.Run(name, func(t *testing.T) {
			now := time.Now()
			rec := domain.NewRecord("sess-"+name, data, now, time.Hour)

			encoded, err := codec.Encode(rec)
			require.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			require.NoError(t, err)

			assert.Equal(t, rec.ID, decoded.ID)
			assert.Equal(t, rec.Data, decoded.Data)
			assert.True(t, decoded.CreatedAt.Equal(rec.CreatedAt))
			assert.True(t, decoded.LastAccessedAt.Equal(rec.LastAccessedAt))
			assert.True(t, decoded.ExpiresAt.Equal(rec.ExpiresAt))
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string][]byte{
		"empty":           nil,
		"garbage":         []byte("not json at all"),
		"truncated":       []byte(`{"version":1,"session":{"id":"x"`),
		"missing_session": []byte(`{"version":1}`),
		"bad_session":     []byte(`{"version":1,"session":"nope"}`),
		"missing_id":      []byte(`{"version":1,"session":{}}`),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode(data)
			assert.ErrorIs(t, err, codec.ErrMalformed)
		})
	}
}

func TestDecodeUnknownVersion(t *testing.T) {
	_, err := codec.Decode([]byte(`{"version":99,"session":{"id":"x"}}`))
	require.ErrorIs(t, err, codec.ErrMalformed)
	assert.Contains(t, err.Error(), "version")
}

func TestEncodeTagsVersion(t *testing.T) {
	rec := domain.NewRecord("v-check", nil, time.Now(), time.Hour)
	encoded, err := codec.Encode(rec)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"version":1`)
}
