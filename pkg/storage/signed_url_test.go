package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("job-1", "participation.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())
	require.NotContains(t, token, "/")

	jobID, path, parsedExpiry, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)
	require.Equal(t, "participation.csv", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("job-1", "participation.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Parse(token)
	require.Error(t, err)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("job-1", "participation.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 4)
	parts[0] = "job-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."))
	require.Error(t, err)

	other := NewSignedURLSigner("other-secret", time.Hour)
	_, _, _, err = other.Parse(token)
	require.Error(t, err)
}
