package client

import (
	"context"
	"net/url"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// ProcessMolecule posts req to /molecule. A SMILES the server cannot handle
// yields Success=false with a nil error.
func (c *Client) ProcessMolecule(ctx context.Context, req moltypes.StructureRequest) (*moltypes.MoleculeResponse, error) {
	var resp moltypes.MoleculeResponse
	if err := c.post(ctx, "/molecule", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Example resolves a catalogue name to its SMILES.
func (c *Client) Example(ctx context.Context, name string) (*moltypes.ExampleResponse, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "example name is required")
	}
	var resp moltypes.ExampleResponse
	if err := c.get(ctx, "/examples/"+url.PathEscape(name), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Examples lists the catalogue names.
func (c *Client) Examples(ctx context.Context) ([]string, error) {
	var resp moltypes.ExampleListResponse
	if err := c.get(ctx, "/examples", &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

// ExportPDB fetches smiles as PDB text. The SMILES is path-escaped, so '/'
// and '#' survive the trip.
func (c *Client) ExportPDB(ctx context.Context, smiles string) (*moltypes.PDBResponse, error) {
	if smiles == "" {
		return nil, errors.New(errors.ErrCodeValidation, "smiles is required")
	}
	var resp moltypes.PDBResponse
	if err := c.get(ctx, "/export/pdb/"+url.PathEscape(smiles), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Measure asks the server for a distance, angle or dihedral.
func (c *Client) Measure(ctx context.Context, req moltypes.MeasureRequest) (*moltypes.MeasureResponse, error) {
	var resp moltypes.MeasureResponse
	if err := c.post(ctx, "/measure", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ready reports whether the server and its backends are ready.
func (c *Client) Ready(ctx context.Context) error {
	return c.get(ctx, "/readyz", nil)
}

//Personal.AI order the ending
