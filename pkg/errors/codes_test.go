package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeTimeout, 504},
		{ErrCodeMoleculeInvalidSMILES, 400},
		{ErrCodeExampleNotFound, 404},
		{ErrCodeEmbeddingFailed, 500},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "Invalid SMILES string", DefaultMessageForCode(ErrCodeMoleculeInvalidSMILES))
	assert.Equal(t, "Failed to generate 3D coordinates", DefaultMessageForCode(ErrCodeEmbeddingFailed))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeValenceExceeded))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeOptimizationFailed))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "MOL", ModuleForCode(ErrCodeEmbeddingFailed))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestCodesAreWellFormedAndMapped(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, pattern, string(code))
		_, ok := ErrorCodeMessage[code]
		assert.True(t, ok, "missing default message for %s", code)
	}
}

//Personal.AI order the ending
