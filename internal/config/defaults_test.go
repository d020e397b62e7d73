package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultComputeTimeout, cfg.Chem.ComputeTimeout)
	assert.Equal(t, DefaultMaxAtoms, cfg.Chem.MaxAtoms)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Chem.MaxConcurrency)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Chem.MaxAtoms = 50
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Chem.MaxAtoms)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
