package depict

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

func parse(t *testing.T, smiles string) *molecule.Molecule {
	t.Helper()
	m, err := molecule.Parse(smiles)
	require.NoError(t, err, smiles)
	return m
}

func TestCompute2DCoords_Benzene(t *testing.T) {
	m := parse(t, "c1ccccc1")
	require.NoError(t, Compute2DCoords(m))
	require.NotNil(t, m.Conformer)
	assert.False(t, m.Conformer.Is3D)

	pos := m.Positions()
	for _, p := range pos {
		assert.Zero(t, p.Z)
	}
	for _, b := range m.Bonds {
		assert.InDelta(t, BondLength, geometry.Distance(pos[b.Begin], pos[b.End]), 1e-3)
	}
	assert.InDelta(t, 2*BondLength, geometry.Distance(pos[0], pos[3]), 1e-3)
}

func TestCompute2DCoords_ZigZagChain(t *testing.T) {
	m := parse(t, "CCCC")
	require.NoError(t, Compute2DCoords(m))
	pos := m.Positions()

	assert.InDelta(t, zigzag(3), geometry.Distance(pos[0], pos[3]), 1e-2)
	assert.InDelta(t, 120.0, geometry.Angle(pos[0], pos[1], pos[2]), 1.0)

	var minX, maxX, minY, maxY float64
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	assert.Greater(t, maxX-minX, maxY-minY)
}

func TestCompute2DCoords_LinearThroughTripleBond(t *testing.T) {
	m := parse(t, "CC#CC")
	require.NoError(t, Compute2DCoords(m))
	pos := m.Positions()
	assert.Greater(t, geometry.Angle(pos[0], pos[1], pos[2]), 175.0)
	assert.Greater(t, geometry.Angle(pos[1], pos[2], pos[3]), 175.0)
	assert.InDelta(t, 3*BondLength, geometry.Distance(pos[0], pos[3]), 0.05)
}

func TestCompute2DCoords_LinearThroughDiyne(t *testing.T) {
	m := parse(t, "CC#CC#CC")
	require.NoError(t, Compute2DCoords(m))
	pos := m.Positions()
	for k := 1; k <= 4; k++ {
		assert.Greater(t, geometry.Angle(pos[k-1], pos[k], pos[k+1]), 175.0, "atom %d", k)
	}
}

func TestCompute2DCoords_FragmentsDoNotOverlap(t *testing.T) {
	m := parse(t, "CCO.O")
	require.NoError(t, Compute2DCoords(m))
	pos := m.Positions()

	maxFirst := math.Max(pos[0].X, math.Max(pos[1].X, pos[2].X))
	assert.GreaterOrEqual(t, pos[3].X, maxFirst+fragmentSpacing-1e-9)
}

func TestCompute2DCoords_LowStressForFusedRings(t *testing.T) {
	m := parse(t, "c1ccc2ccccc2c1")
	require.NoError(t, Compute2DCoords(m))
	pos := m.Positions()
	for _, b := range m.Bonds {
		assert.InDelta(t, BondLength, geometry.Distance(pos[b.Begin], pos[b.End]), 0.15)
	}
	assert.Less(t, Stress(m), 1.0)
}

func TestDepict_Aspirin(t *testing.T) {
	m := parse(t, "CC(=O)OC1=CC=CC=C1C(=O)O")
	svg, err := Depict(m, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, XMLHeader))
	assert.Contains(t, svg, "<svg ")
	assert.Contains(t, svg, "width='300px' height='300px'")
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))

	assert.Equal(t, 4, strings.Count(svg, "<text "))
	assert.Equal(t, 3, strings.Count(svg, ">O</text>"))
	assert.Equal(t, 1, strings.Count(svg, ">OH</text>"))
	assert.Contains(t, svg, "stroke-dasharray")
	assert.Contains(t, svg, "fill:#FF0D0D")
}

func TestDepict_IsDeterministic(t *testing.T) {
	a, err := Depict(parse(t, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C"), DefaultOptions())
	require.NoError(t, err)
	b, err := Depict(parse(t, "CN1C=NC2=C1C(=O)N(C(=O)N2C)C"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDepict_SingleAtom(t *testing.T) {
	svg, err := Depict(parse(t, "[Na+]"), DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, svg, "Na<tspan style='baseline-shift:super;font-size:75%'>+</tspan>")
}

func TestDepict_Errors(t *testing.T) {
	_, err := Depict(molecule.New(), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDepictionFailed))

	_, err = Render(parse(t, "CC"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDepictionFailed))

	m := parse(t, "CC")
	require.NoError(t, Compute2DCoords(m))
	_, err = Render(m, Options{Width: 0, Height: 300})
	assert.Error(t, err)
}

func TestAtomLabel(t *testing.T) {
	tests := []struct {
		smiles string
		want   string
	}{
		{"[NH4+]", "NH4+"},
		{"[13CH4]", "13CH4"},
		{"C", "CH4"},
		{"O", "OH2"},
		{"[O-2]", "O2-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, atomLabel(parse(t, tt.smiles), 0), tt.smiles)
	}
	assert.Empty(t, atomLabel(parse(t, "CC"), 0))
}

func TestLabelMarkup(t *testing.T) {
	assert.Equal(t,
		"NH<tspan style='baseline-shift:sub;font-size:75%'>4</tspan><tspan style='baseline-shift:super;font-size:75%'>+</tspan>",
		labelMarkup("NH4+", 1))
	assert.Equal(t,
		"<tspan style='baseline-shift:super;font-size:75%'>13</tspan>CH<tspan style='baseline-shift:sub;font-size:75%'>4</tspan>",
		labelMarkup("13CH4", 0))
	assert.Equal(t, "OH", labelMarkup("OH", 0))
}

//Personal.AI order the ending
