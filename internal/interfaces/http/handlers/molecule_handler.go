package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appmol "github.com/MathioLucas/Molecular-expolrer/internal/application/molecule"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// MoleculeHandler serves the structure, example, export and measurement
// endpoints. Domain failures are reported in-body with HTTP 200; only
// malformed request bodies get a 422.
type MoleculeHandler struct {
	svc             appmol.Service
	structureSchema *SchemaValidator
	measureSchema   *SchemaValidator
	logger          logging.Logger
}

// NewMoleculeHandler creates a MoleculeHandler backed by svc.
func NewMoleculeHandler(svc appmol.Service, logger logging.Logger) *MoleculeHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MoleculeHandler{
		svc:             svc,
		structureSchema: MustSchemaValidator(StructureRequestSchema),
		measureSchema:   MustSchemaValidator(MeasureRequestSchema),
		logger:          logger,
	}
}

// RegisterRoutes mounts the handler on r.
func (h *MoleculeHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/molecule", h.ProcessMolecule)
	r.GET("/examples", h.ListExamples)
	r.GET("/examples/:name", h.GetExample)
	r.GET("/export/pdb/*smiles", h.ExportPDB)
	r.POST("/measure", h.Measure)
}

// ProcessMolecule handles POST /molecule.
func (h *MoleculeHandler) ProcessMolecule(c *gin.Context) {
	var req moltypes.StructureRequest
	if err := bindValidated(c, h.structureSchema, &req); err != nil {
		writeInvalidBody(c, err)
		return
	}
	out := h.svc.ProcessMolecule(c.Request.Context(), req)
	c.JSON(http.StatusOK, out.Response())
}

// ListExamples handles GET /examples.
func (h *MoleculeHandler) ListExamples(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Examples())
}

// GetExample handles GET /examples/:name.
func (h *MoleculeHandler) GetExample(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Example(c.Param("name")))
}

// ExportPDB handles GET /export/pdb/*smiles. The wildcard keeps SMILES
// containing '/' bond symbols intact.
func (h *MoleculeHandler) ExportPDB(c *gin.Context) {
	smiles := strings.TrimPrefix(c.Param("smiles"), "/")
	c.JSON(http.StatusOK, h.svc.ExportPDB(c.Request.Context(), smiles))
}

// Measure handles POST /measure.
func (h *MoleculeHandler) Measure(c *gin.Context) {
	var req moltypes.MeasureRequest
	if err := bindValidated(c, h.measureSchema, &req); err != nil {
		writeInvalidBody(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Measure(req))
}

//Personal.AI order the ending
