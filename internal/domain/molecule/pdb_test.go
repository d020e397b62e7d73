package molecule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

func TestWritePDB_Formaldehyde(t *testing.T) {
	m := mustParse(t, "C=O")
	require.NoError(t, m.SetConformer([]geometry.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1.2, Y: -0.5, Z: 0.25}}, true))

	out, err := WritePDB(m)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "HETATM    1  C1  UNL     1       0.000   0.000   0.000  1.00  0.00           C  ", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "HETATM    2  O1  UNL     1       1.200  -0.500   0.250"))
	assert.Equal(t, "CONECT    1    2    2", lines[2])
	assert.Equal(t, "CONECT    2    1    1", lines[3])
	assert.Equal(t, "END", lines[4])
}

func TestWritePDB_ChargeAndLongNames(t *testing.T) {
	m := mustParse(t, "[NH4+]")
	require.NoError(t, m.SetConformer([]geometry.Vec3{{}}, true))
	out, err := WritePDB(m)
	require.NoError(t, err)
	assert.Contains(t, out, " N1+\n")

	m = mustParse(t, "ClCl")
	require.NoError(t, m.SetConformer(make([]geometry.Vec3, 2), true))
	out, err = WritePDB(m)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "HETATM    1 Cl1  UNL"))
}

func TestWritePDB_WrapsConect(t *testing.T) {
	m := mustParse(t, "C(F)(F)(F)F")
	require.NoError(t, m.SetConformer(make([]geometry.Vec3, 5), true))
	out, err := WritePDB(m)
	require.NoError(t, err)
	assert.Contains(t, out, "CONECT    1    2    3    4    5\n")
}

func TestWritePDB_RequiresCoordinates(t *testing.T) {
	_, err := WritePDB(mustParse(t, "CC"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmbeddingFailed))
}

//Personal.AI order the ending
