package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/internal/testutil"
)

var _ logging.Logger = (*testutil.MockLogger)(nil)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("service").With(logging.String("smiles", "CCO"))

	child.Warn("slow", logging.Int("atoms", 9))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "service", messages[0].Logger)
	assert.Len(t, messages[0].Fields, 2)

	v, ok := logger.Field("slow", "smiles")
	assert.True(t, ok)
	assert.Equal(t, "CCO", v)
}

//Personal.AI order the ending
