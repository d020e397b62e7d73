package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

func measureRequest() moltypes.MeasureRequest {
	return moltypes.MeasureRequest{
		Atoms:   []moltypes.Point{{X: 0}, {X: 3, Y: 4}},
		Indices: []int{0, 1},
	}
}

func TestProcessMolecule_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/molecule", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CCO", body["smiles"])
		assert.Equal(t, false, body["include_hydrogens"])
		assert.NotContains(t, body, "optimize_3d")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true, "message": "",
			"atoms": [{"index":0,"element":"C","x":0,"y":0,"z":0,"charge":0,"is_aromatic":false,"is_in_ring":false}],
			"bonds": [],
			"descriptors": {"Formula":"C2H6O"},
			"svg": "<?xml version=\"1.0\"?><svg/>"
		}`))
	})

	resp, err := c.ProcessMolecule(context.Background(), moltypes.StructureRequest{
		SMILES:           "CCO",
		IncludeHydrogens: moltypes.Bool(false),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.MoleculePayload)
	assert.Len(t, resp.Atoms, 1)
	assert.Equal(t, "C2H6O", resp.Descriptors.Formula)
	assert.Contains(t, resp.SVG, "<svg")
}

func TestProcessMolecule_InvalidInputIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "message": "Invalid SMILES string", "error_kind": "invalid_input",
		})
	})

	resp, err := c.ProcessMolecule(context.Background(), moltypes.StructureRequest{SMILES: "not_a_molecule"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid SMILES string", resp.Message)
	assert.Equal(t, moltypes.ErrorKindInvalidInput, resp.ErrorKind)
	assert.Nil(t, resp.MoleculePayload)
}

func TestExample(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/examples/caffeine", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "smiles": "CN1C=NC2=C1C(=O)N(C(=O)N2C)C"})
	})

	resp, err := c.Example(context.Background(), "caffeine")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C", resp.SMILES)

	_, err = c.Example(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestExportPDB_EscapesSMILES(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export/pdb/F/C=C/F#N", r.URL.Path)
		assert.Equal(t, "/export/pdb/F%2FC=C%2FF%23N", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "pdb": "HETATM\nEND\n"})
	})

	resp, err := c.ExportPDB(context.Background(), "F/C=C/F#N")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.PDB, "END")

	_, err = c.ExportPDB(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestMeasure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req moltypes.MeasureRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int{0, 1}, req.Indices)
		writeJSON(w, http.StatusOK, moltypes.MeasureResponse{
			Success: true, Kind: moltypes.MeasureDistance, Value: 5, Unit: "Å",
			Center: &moltypes.Point{X: 1.5, Y: 2},
		})
	})

	resp, err := c.Measure(context.Background(), measureRequest())
	require.NoError(t, err)
	assert.Equal(t, moltypes.MeasureDistance, resp.Kind)
	assert.InDelta(t, 5.0, resp.Value, 1e-9)
	assert.Equal(t, 1.5, resp.Center.X)
}

//Personal.AI order the ending
