package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Aliases
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	CodeMoleculeInvalidSMILES = ErrCodeMoleculeInvalidSMILES
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES ErrorCode = "MOL_001"
	ErrCodeMoleculeTooLarge      ErrorCode = "MOL_003"
	ErrCodeExampleNotFound       ErrorCode = "MOL_004"
	ErrCodeKekulizationFailed    ErrorCode = "MOL_006"
	ErrCodeValenceExceeded       ErrorCode = "MOL_011"
	ErrCodeDescriptorFailed      ErrorCode = "MOL_013"
	ErrCodeEmbeddingFailed       ErrorCode = "MOL_016"
	ErrCodeOptimizationFailed    ErrorCode = "MOL_017"
	ErrCodeDepictionFailed       ErrorCode = "MOL_018"
	ErrCodeMeasurementInvalid    ErrorCode = "MOL_019"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,

	ErrCodeMoleculeInvalidSMILES: http.StatusBadRequest,
	ErrCodeMoleculeTooLarge:      http.StatusBadRequest,
	ErrCodeExampleNotFound:       http.StatusNotFound,
	ErrCodeKekulizationFailed:    http.StatusBadRequest,
	ErrCodeValenceExceeded:       http.StatusBadRequest,
	ErrCodeDescriptorFailed:      http.StatusInternalServerError,
	ErrCodeEmbeddingFailed:       http.StatusInternalServerError,
	ErrCodeOptimizationFailed:    http.StatusInternalServerError,
	ErrCodeDepictionFailed:       http.StatusInternalServerError,
	ErrCodeMeasurementInvalid:    http.StatusBadRequest,
}

// ErrorCodeMessage maps error codes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeMoleculeInvalidSMILES: "Invalid SMILES string",
	ErrCodeMoleculeTooLarge:      "molecule exceeds the configured atom limit",
	ErrCodeExampleNotFound:       "Example not found",
	ErrCodeKekulizationFailed:    "can't kekulize aromatic system",
	ErrCodeValenceExceeded:       "explicit valence is greater than permitted",
	ErrCodeDescriptorFailed:      "descriptor calculation failed",
	ErrCodeEmbeddingFailed:       "Failed to generate 3D coordinates",
	ErrCodeOptimizationFailed:    "force field optimization failed",
	ErrCodeDepictionFailed:       "failed to compute 2D depiction",
	ErrCodeMeasurementInvalid:    "invalid measurement request",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
