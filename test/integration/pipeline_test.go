//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/database/redis"
	"github.com/MathioLucas/Molecular-expolrer/internal/interfaces/cli"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// TestPipeline_AllBackends wires the service exactly as the server does with
// every optional backend enabled.
func TestPipeline_AllBackends(t *testing.T) {
	requireIntegration(t)

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Chem.CacheEnabled = true

	prefix := uniqueName("molx-it:") + ":"
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = redisAddr(t)
	cfg.Redis.KeyPrefix = prefix

	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = kafkaBrokers(t)
	cfg.Kafka.EnsureTopics = true

	cfg.MinIO.Enabled = true
	cfg.MinIO.Endpoint = minioEndpoint(t)
	cfg.MinIO.AccessKeyID = minioAccessKey()
	cfg.MinIO.SecretAccessKey = minioSecretKey()
	cfg.MinIO.Bucket = uniqueName("molx-it-")
	require.NoError(t, cfg.Validate())
	ctx := testContext(t, 90*time.Second)

	logger := newLogger()
	app, err := cli.NewApp(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	for _, c := range app.Checkers {
		assert.NoError(t, c.Check(ctx), c.Name())
	}

	req := moltypes.StructureRequest{SMILES: "CC(=O)O"}
	first := app.Service.ProcessMolecule(ctx, req)
	require.True(t, first.OK(), first.Reason)
	second := app.Service.ProcessMolecule(ctx, req)
	require.True(t, second.OK(), second.Reason)
	assert.Equal(t, first.Payload, second.Payload)

	rc, err := redis.NewClient(&redis.RedisConfig{Addr: redisAddr(t)}, logger)
	require.NoError(t, err)
	defer rc.Close()
	n, err := rc.Exists(ctx, prefix+"structure:v1:h=true:CC(=O)O").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	pdb := app.Service.ExportPDB(ctx, "CC(=O)O")
	require.True(t, pdb.Success, pdb.Message)
	assert.NotEmpty(t, pdb.URL)
	assert.Contains(t, pdb.PDB, "HETATM")

	assert.False(t, logger.HasMessage("warn", "Failed to publish event"))
}

//Personal.AI order the ending
