package archive

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wmx-replay/apps/server/internal/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "hands/abc.txt", Key("hands", "abc"))
	assert.Equal(t, "summary/abc.txt", Key("/Summary/", "abc"))
	assert.Equal(t, "misc/abc.txt", Key("", "abc"))
}

func TestNewWithoutBucketIsNop(t *testing.T) {
	a, err := New(context.Background(), config.ArchiveConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Nop(), a)
	assert.NoError(t, a.Put(context.Background(), "hands/x.txt", []byte("x")))
}

func TestNewWithBucket(t *testing.T) {
	a, err := New(context.Background(), config.ArchiveConfig{
		Bucket:          "raw",
		Region:          "auto",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
	}, zerolog.Nop())
	require.NoError(t, err)
	s, ok := a.(*s3Archiver)
	require.True(t, ok)
	assert.Equal(t, "raw", s.bucket)
}
