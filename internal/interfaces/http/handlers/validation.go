package handlers

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// StructureRequestSchema describes the body of POST /molecule. An empty
// smiles string is accepted here and rejected by the parser.
const StructureRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["smiles"],
	"properties": {
		"smiles": {"type": "string"},
		"optimize_3d": {"type": "boolean"},
		"include_hydrogens": {"type": "boolean"}
	}
}`

// MeasureRequestSchema describes the body of POST /measure.
const MeasureRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["atoms", "indices"],
	"properties": {
		"atoms": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["x", "y", "z"],
				"properties": {
					"x": {"type": "number"},
					"y": {"type": "number"},
					"z": {"type": "number"}
				}
			}
		},
		"indices": {
			"type": "array",
			"minItems": 2,
			"maxItems": 4,
			"items": {"type": "integer", "minimum": 0}
		}
	}
}`

// SchemaValidator checks raw JSON bodies against a compiled JSON schema.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles schema.
func NewSchemaValidator(schema string) (*SchemaValidator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "invalid JSON schema")
	}
	return &SchemaValidator{schema: s}, nil
}

// MustSchemaValidator is NewSchemaValidator for the built-in schemas.
func MustSchemaValidator(schema string) *SchemaValidator {
	v, err := NewSchemaValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns an ErrCodeValidation error listing every violation.
func (v *SchemaValidator) Validate(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New(errors.ErrCodeValidation, "request body is empty")
	}
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "request body is not valid JSON")
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return errors.New(errors.ErrCodeValidation, "invalid request body").
			WithDetail(strings.Join(msgs, "; "))
	}
	return nil
}

// bindValidated reads the request body, validates it against v and decodes
// it into dest.
func bindValidated(c *gin.Context, v *SchemaValidator, dest interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "failed to read request body")
	}
	if err := v.Validate(body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "request body does not match the expected shape")
	}
	return nil
}

//Personal.AI order the ending
