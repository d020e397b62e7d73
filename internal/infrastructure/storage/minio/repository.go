package minio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

const pdbContentType = "chemical/x-pdb"

var ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid artifact request")

// Artifact is a stored export and a time-limited download link for it.
type Artifact struct {
	Bucket     string
	ObjectKey  string
	ETag       string
	Size       int64
	URL        string
	UploadedAt time.Time
}

// ArtifactStore keeps exported structure files.
type ArtifactStore interface {
	PutPDB(ctx context.Context, smiles, pdb string) (*Artifact, error)
}

type minioArtifactStore struct {
	client *MinIOClient
	logger logging.Logger
}

func NewArtifactStore(client *MinIOClient, log logging.Logger) ArtifactStore {
	return &minioArtifactStore{client: client, logger: log}
}

// ObjectKeyFor derives the key from the content so identical exports share
// one object.
func ObjectKeyFor(kind string, data []byte) string {
	sum := sha256.Sum256(data)
	return kind + "/" + hex.EncodeToString(sum[:16]) + "." + kind
}

// PutPDB uploads the PDB text and returns a presigned GET URL for it.
func (s *minioArtifactStore) PutPDB(ctx context.Context, smiles, pdb string) (*Artifact, error) {
	if pdb == "" {
		return nil, ErrInvalidRequest
	}
	data := []byte(pdb)
	key := ObjectKeyFor("pdb", data)
	bucket := s.client.Bucket()

	opts := minio.PutObjectOptions{
		ContentType:  pdbContentType,
		UserMetadata: map[string]string{"smiles": smiles},
		UserTags:     map[string]string{"kind": "pdb"},
	}
	info, err := s.client.GetClient().PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "upload failed")
	}

	link, err := s.client.GeneratePresignedGetURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("PDB artifact stored",
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return &Artifact{
		Bucket:     bucket,
		ObjectKey:  key,
		ETag:       info.ETag,
		Size:       info.Size,
		URL:        link,
		UploadedAt: time.Now().UTC(),
	}, nil
}

//Personal.AI order the ending
