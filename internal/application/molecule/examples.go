package molecule

import "sort"

// exampleMolecules is the fixed example catalogue served by /examples.
var exampleMolecules = map[string]string{
	"caffeine":   "CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
	"aspirin":    "CC(=O)OC1=CC=CC=C1C(=O)O",
	"penicillin": "CC1(C)SC2C(NC(=O)CC3=CC=CC=C3)C(=O)N2C1C(=O)O",
	"graphene":   "C1=CC=C2C=CC=CC2=C1",
	"glucose":    "C(C1C(C(C(C(O1)O)O)O)O)O",
	"adrenaline": "CNC[C@H](O)C1=CC(O)=C(O)C=C1",
}

// LookupExample returns the SMILES of a named example. Names are matched
// exactly.
func LookupExample(name string) (string, bool) {
	smiles, ok := exampleMolecules[name]
	return smiles, ok
}

// ExampleNames returns the catalogue names in sorted order.
func ExampleNames() []string {
	names := make([]string, 0, len(exampleMolecules))
	for name := range exampleMolecules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//Personal.AI order the ending
