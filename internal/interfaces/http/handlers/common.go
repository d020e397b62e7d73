// Package handlers implements the gin handlers of the molecule explorer API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// ErrorResponse is the body of every non-200 reply. It keeps the success
// flag and error kind of the domain responses so clients can treat all
// failures alike.
type ErrorResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	ErrorKind moltypes.ErrorKind `json:"error_kind,omitempty"`
	Code      string             `json:"code,omitempty"`
}

// writeAppError maps an error to its HTTP status via the error code table.
// Internal errors are masked.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	msg := errors.Message(err)
	if status >= http.StatusInternalServerError {
		msg = "internal server error"
	}
	kind := moltypes.ErrorKindComputationFailure
	if status < http.StatusInternalServerError {
		kind = moltypes.ErrorKindInvalidInput
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success:   false,
		Message:   msg,
		ErrorKind: kind,
		Code:      string(code),
	})
}

// writeInvalidBody rejects a request body that failed decoding or schema
// validation.
func writeInvalidBody(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Success:   false,
		Message:   errors.Message(err),
		ErrorKind: moltypes.ErrorKindInvalidInput,
		Code:      string(errors.ErrCodeValidation),
	})
}

// NoRoute answers requests that match no route.
func NoRoute(c *gin.Context) {
	writeAppError(c, errors.Newf(errors.ErrCodeNotFound, "no route for %s %s", c.Request.Method, c.Request.URL.Path))
}

//Personal.AI order the ending
