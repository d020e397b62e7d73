//go:build integration

package integration

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/storage/minio"
)

const ethanolPDB = "HETATM    1  C1  UNL     1       0.000   0.000   0.000  1.00  0.00           C\nEND\n"

func newMinIOClient(t *testing.T) *minio.MinIOClient {
	t.Helper()
	client, err := minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        minioEndpoint(t),
		AccessKeyID:     minioAccessKey(),
		SecretAccessKey: minioSecretKey(),
		Bucket:          uniqueName("molx-it-"),
		PresignExpiry:   5 * time.Minute,
	}, newLogger())
	require.NoError(t, err, "minio must be reachable at %s", minioEndpoint(t))
	return client
}

func TestMinIO_PutPDBAndDownload(t *testing.T) {
	requireIntegration(t)
	client := newMinIOClient(t)
	ctx := testContext(t, 30*time.Second)
	require.NoError(t, client.HealthCheck(ctx))

	store := minio.NewArtifactStore(client, newLogger())
	art, err := store.PutPDB(ctx, "CCO", ethanolPDB)
	require.NoError(t, err)
	assert.Equal(t, client.Bucket(), art.Bucket)
	assert.Equal(t, minio.ObjectKeyFor("pdb", []byte(ethanolPDB)), art.ObjectKey)
	assert.Equal(t, int64(len(ethanolPDB)), art.Size)
	require.NotEmpty(t, art.URL)

	resp, err := http.Get(art.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ethanolPDB, string(body))
}

func TestMinIO_IdenticalExportsShareAnObject(t *testing.T) {
	requireIntegration(t)
	store := minio.NewArtifactStore(newMinIOClient(t), newLogger())
	ctx := testContext(t, 30*time.Second)

	first, err := store.PutPDB(ctx, "CCO", ethanolPDB)
	require.NoError(t, err)
	second, err := store.PutPDB(ctx, "OCC", ethanolPDB)
	require.NoError(t, err)
	assert.Equal(t, first.ObjectKey, second.ObjectKey)
}

//Personal.AI order the ending
