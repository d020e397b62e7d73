package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

func smartsMatch(t *testing.T, pattern, smiles string) bool {
	t.Helper()
	p, err := compileSMARTS(pattern)
	require.NoError(t, err, pattern)
	return p.matches(newSMARTSTarget(parse(t, smiles)), -1)
}

func TestSMARTS_AtomPrimitives(t *testing.T) {
	tests := []struct {
		pattern string
		smiles  string
		want    bool
	}{
		{"c", "c1ccccc1", true},
		{"C", "c1ccccc1", false},
		{"[#6]", "c1ccccc1", true},
		{"a", "C1CCCCC1", false},
		{"A", "C1CCCCC1", true},
		{"[CH3]", "CC", true},
		{"[CH2]", "CC", false},
		{"[CX4]", "CCl", true},
		{"[CD1]", "CC", true},
		{"[CD3]", "CC(C)C", true},
		{"[NX3;H2]", "CN", true},
		{"[Nv3X3]", "CN(C)C", true},
		{"[Nv4X4]", "C[N+](C)(C)C", true},
		{"[R0;D2]", "CCC", true},
		{"[CR2]", "C1CCC2CCCCC2C1", true},
		{"[CR2]", "C1CCCCC1", false},
		{"[r5]", "C1CCCC1", true},
		{"[r6]", "C1CCCC1", false},
		{"[C!r]", "C1CCCC1", false},
		{"[N+]", "C[NH3+]", true},
		{"[N+0]", "C[NH3+]", false},
		{"[O-]", "CC(=O)[O-]", true},
		{"[Fe++]", "[Fe+2]", true},
		{"[Fe+3]", "[Fe+2]", false},
		{"[13C]", "[13CH4]", true},
		{"[13C]", "C", false},
		{"[Cl,Br,I]", "CBr", true},
		{"[Cl,Br,I]", "CF", false},
		{"[Sb]", "[Sb]", true},
		{"[C;!R]", "C1CC1C", true},
		{"[!#6;!#1]", "CCO", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, smartsMatch(t, tt.pattern, tt.smiles), "%s in %s", tt.pattern, tt.smiles)
	}
}

func TestSMARTS_Bonds(t *testing.T) {
	tests := []struct {
		pattern string
		smiles  string
		want    bool
	}{
		{"CC", "c1ccccc1", false},
		{"cc", "c1ccccc1", true},
		{"c-c", "c1ccccc1", false},
		{"c:c", "c1ccccc1", true},
		{"c=c", "c1ccccc1", false},
		{"c-c", "c1ccccc1-c1ccccc1", true},
		{"C=C", "C=C", true},
		{"C=C", "CC", false},
		{"C#N", "CC#N", true},
		{"C~O", "C=O", true},
		{"C@C", "C1CC1", true},
		{"C@C", "CC", false},
		{"C=!@C", "C1=CCCC1", false},
		{"C=!@C", "C=CC", true},
		{"C-,:C", "CC", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, smartsMatch(t, tt.pattern, tt.smiles), "%s in %s", tt.pattern, tt.smiles)
	}
}

func TestSMARTS_Topology(t *testing.T) {
	tests := []struct {
		pattern string
		smiles  string
		want    bool
	}{
		{"C1CCCCC1", "C1CCCCC1", true},
		{"C1CCCCC1", "CCCCCC", false},
		{"C1CCCC1", "C1CCCCC1", false},
		{"CC(C)(C)C", "CC(C)(C)C", true},
		{"CC(C)(C)C", "CC(C)CC", false},
		{"O.O", "CCO", false},
		{"O.O", "OCCO", true},
		{"[$(CC)]#C", "CC#C", true},
		{"[$([CH]),$(CC)]#C", "C#CO", true},
		{"[$(C(F)(F)F)]", "CC(F)(F)F", true},
		{"[$(C(F)(F)F)]C", "FC(F)F", false},
		{"c12ccccc1cccc2", "c1ccc2ccccc2c1", true},
		{"c12ccccc1cccc2", "c1ccccc1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, smartsMatch(t, tt.pattern, tt.smiles), "%s in %s", tt.pattern, tt.smiles)
	}
}

func TestSMARTS_RejectsMalformed(t *testing.T) {
	for _, src := range []string{"C(", "C)", "C1CC", "[C", "[Qq]", "[#]", "C=?C", "[$(C]"} {
		_, err := compileSMARTS(src)
		require.Error(t, err, src)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDescriptorFailed), src)
	}
}

func TestStructuralAlertSet_Compiles(t *testing.T) {
	require.Len(t, structuralAlertSet, len(unwantedSubstructures))
	for i, p := range structuralAlertSet {
		assert.Equal(t, unwantedSubstructures[i], p.source)
		assert.NotEmpty(t, p.atoms, p.source)
	}
}

//Personal.AI order the ending
