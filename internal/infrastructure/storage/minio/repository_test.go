package minio

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

const waterPDB = "HETATM    1  O1  UNL     1       0.000   0.000   0.000  1.00  0.00           O  \nEND\n"

func newTestStore() (ArtifactStore, *MockMinIOAPI) {
	api := new(MockMinIOAPI)
	client := NewMinIOClientFromAPI(api, &MinIOConfig{Bucket: "exports"}, logging.NewNopLogger())
	return NewArtifactStore(client, logging.NewNopLogger()), api
}

func TestObjectKeyFor(t *testing.T) {
	a := ObjectKeyFor("pdb", []byte(waterPDB))
	b := ObjectKeyFor("pdb", []byte(waterPDB))
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "pdb/"))
	assert.True(t, strings.HasSuffix(a, ".pdb"))
	assert.Len(t, a, len("pdb/")+32+len(".pdb"))
	assert.NotEqual(t, a, ObjectKeyFor("pdb", []byte("END\n")))
}

func TestPutPDB_Success(t *testing.T) {
	store, api := newTestStore()
	ctx := context.Background()
	key := ObjectKeyFor("pdb", []byte(waterPDB))

	api.On("PutObject", ctx, "exports", key, mock.Anything, int64(len(waterPDB)),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "chemical/x-pdb" && o.UserMetadata["smiles"] == "O"
		})).Return(minio.UploadInfo{Bucket: "exports", Key: key, ETag: "e1", Size: int64(len(waterPDB))}, nil)
	u, _ := url.Parse("http://minio:9000/exports/" + key + "?sig=1")
	api.On("PresignedGetObject", ctx, "exports", key, mock.Anything, url.Values(nil)).Return(u, nil)

	art, err := store.PutPDB(ctx, "O", waterPDB)
	require.NoError(t, err)
	assert.Equal(t, key, art.ObjectKey)
	assert.Equal(t, "e1", art.ETag)
	assert.Equal(t, u.String(), art.URL)
	api.AssertExpectations(t)
}

func TestPutPDB_UploadFails(t *testing.T) {
	store, api := newTestStore()
	api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	_, err := store.PutPDB(context.Background(), "O", waterPDB)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeExternalService))
	api.AssertNotCalled(t, "PresignedGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPutPDB_Empty(t *testing.T) {
	store, _ := newTestStore()
	_, err := store.PutPDB(context.Background(), "O", "")
	assert.Equal(t, ErrInvalidRequest, err)
}

//Personal.AI order the ending
