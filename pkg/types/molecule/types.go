// Package molecule defines the molecule-explorer Data Transfer Objects: the
// structure request, atom and bond records, the descriptor table and every
// endpoint's response shape.  No domain logic lives here, only plain data
// types that are safe to import from any layer, including the Go client SDK.
package molecule

// ─────────────────────────────────────────────────────────────────────────────
// BondType — wire name of a bond's perceived order
// ─────────────────────────────────────────────────────────────────────────────

// BondType is the categorised bond order reported for every bond.
type BondType string

const (
	BondSingle   BondType = "single"
	BondDouble   BondType = "double"
	BondTriple   BondType = "triple"
	BondAromatic BondType = "aromatic"

	// BondUnknown is reported for any order outside the four above, e.g.
	// quadruple bonds.
	BondUnknown BondType = "unknown"
)

// ─────────────────────────────────────────────────────────────────────────────
// ErrorKind — machine-readable failure category
// ─────────────────────────────────────────────────────────────────────────────

// ErrorKind classifies a failed request so clients need not parse messages.
type ErrorKind string

const (
	// ErrorKindInvalidInput means the SMILES (or request body) was rejected.
	ErrorKindInvalidInput ErrorKind = "invalid_input"

	// ErrorKindComputationFailure means the input parsed but a later stage
	// (embedding, optimization, descriptors, depiction) failed.
	ErrorKindComputationFailure ErrorKind = "computation_failure"
)

// ─────────────────────────────────────────────────────────────────────────────
// Structure request
// ─────────────────────────────────────────────────────────────────────────────

// StructureRequest is the body of POST /molecule.
type StructureRequest struct {
	// SMILES is the molecule in SMILES line notation.
	SMILES string `json:"smiles"`

	// Optimize3D selects seeded embedding plus force-field optimization.
	// Defaults to true when omitted.
	Optimize3D *bool `json:"optimize_3d,omitempty"`

	// IncludeHydrogens adds explicit hydrogens before 3D generation.
	// Defaults to true when omitted.
	IncludeHydrogens *bool `json:"include_hydrogens,omitempty"`
}

// WantsOptimize3D resolves the optimize_3d default.
func (r StructureRequest) WantsOptimize3D() bool {
	return r.Optimize3D == nil || *r.Optimize3D
}

// WantsHydrogens resolves the include_hydrogens default.
func (r StructureRequest) WantsHydrogens() bool {
	return r.IncludeHydrogens == nil || *r.IncludeHydrogens
}

// Bool returns a pointer to b, for building requests with explicit flags.
func Bool(b bool) *bool { return &b }

// ─────────────────────────────────────────────────────────────────────────────
// Atom and bond records
// ─────────────────────────────────────────────────────────────────────────────

// AtomRecord describes one atom of the (possibly hydrogen-augmented)
// molecule. Index matches the engine's atom order.
type AtomRecord struct {
	Index      int     `json:"index"`
	Element    string  `json:"element"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Charge     float64 `json:"charge"`
	IsAromatic bool    `json:"is_aromatic"`
	IsInRing   bool    `json:"is_in_ring"`
}

// BondRecord describes one bond; Begin and End reference AtomRecord indices.
type BondRecord struct {
	Begin        int      `json:"begin"`
	End          int      `json:"end"`
	BondType     BondType `json:"bond_type"`
	IsAromatic   bool     `json:"is_aromatic"`
	IsConjugated bool     `json:"is_conjugated"`
	IsInRing     bool     `json:"is_in_ring"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Descriptors — the fixed descriptor table
// ─────────────────────────────────────────────────────────────────────────────

// Descriptors is the fixed-key descriptor table. JSON keys are part of the
// public contract and must not change.
type Descriptors struct {
	// MolecularWeight is the average molecular weight in g/mol (2 dp).
	MolecularWeight float64 `json:"MolecularWeight"`

	// HeavyAtomCount counts non-hydrogen atoms.
	HeavyAtomCount int `json:"HeavyAtomCount"`

	// AromaticAtomCount counts atoms flagged aromatic.
	AromaticAtomCount int `json:"AromaticAtomCount"`

	// LogP is the Crippen octanol-water partition estimate (2 dp).
	LogP float64 `json:"LogP"`

	// MolMR is the Crippen molar refractivity (2 dp).
	MolMR float64 `json:"MolMR"`

	// TPSA is the topological polar surface area in Å² (2 dp).
	TPSA float64 `json:"TPSA"`

	RotatableBondCount int `json:"RotatableBondCount"`
	HBondDonorCount    int `json:"HBondDonorCount"`
	HBondAcceptorCount int `json:"HBondAcceptorCount"`
	RingCount          int `json:"RingCount"`
	AromaticRingCount  int `json:"AromaticRingCount"`

	// QEDScore is the quantitative estimate of drug-likeness in [0,1] (3 dp).
	QEDScore float64 `json:"QEDScore"`

	// Lipinski rule-of-five flags: true when the threshold is exceeded.
	LipinskiHBD  bool `json:"LipinskiHBD"`
	LipinskiHBA  bool `json:"LipinskiHBA"`
	LipinskiMWT  bool `json:"LipinskiMWT"`
	LipinskiLogP bool `json:"LipinskiLogP"`

	// LipinskiViolations is the number of Lipinski flags that are true.
	LipinskiViolations int `json:"LipinskiViolations"`

	// AtomCounts maps each element symbol to its number of explicit atoms.
	AtomCounts map[string]int `json:"AtomCounts"`

	// Formula is the Hill-order molecular formula, implicit H included.
	Formula string `json:"Formula"`

	// ExactMass is the monoisotopic mass (4 dp).
	ExactMass float64 `json:"ExactMass"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Responses
// ─────────────────────────────────────────────────────────────────────────────

// MoleculePayload is the computed part of a successful POST /molecule.
type MoleculePayload struct {
	Atoms       []AtomRecord `json:"atoms"`
	Bonds       []BondRecord `json:"bonds"`
	Descriptors *Descriptors `json:"descriptors"`
	SVG         string       `json:"svg"`
}

// MoleculeResponse is the body of POST /molecule. The embedded payload is
// nil on failure, so its fields are present exactly when Success is true.
type MoleculeResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	*MoleculePayload
}

// ExampleResponse is the body of GET /examples/{name}.
type ExampleResponse struct {
	Success bool   `json:"success"`
	SMILES  string `json:"smiles,omitempty"`
	Message string `json:"message,omitempty"`
}

// ExampleListResponse is the body of GET /examples.
type ExampleListResponse struct {
	Success bool     `json:"success"`
	Names   []string `json:"names"`
}

// PDBResponse is the body of GET /export/pdb/{smiles}.
type PDBResponse struct {
	Success   bool      `json:"success"`
	PDB       string    `json:"pdb,omitempty"`
	Message   string    `json:"message,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	// URL is a presigned download link, set when artifact upload is enabled.
	URL string `json:"url,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Measurements
// ─────────────────────────────────────────────────────────────────────────────

// Point is a Cartesian coordinate in Å.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MeasurementKind names the geometric quantity returned by POST /measure.
type MeasurementKind string

const (
	MeasureDistance MeasurementKind = "distance"
	MeasureAngle    MeasurementKind = "angle"
	MeasureDihedral MeasurementKind = "dihedral"
)

// MeasureRequest selects 2, 3 or 4 atoms by index for a distance, angle or
// dihedral measurement.
type MeasureRequest struct {
	Atoms   []Point `json:"atoms"`
	Indices []int   `json:"indices"`
}

// MeasureResponse carries the measured value (Å or degrees) and the
// centroid of all atoms.
type MeasureResponse struct {
	Success   bool            `json:"success"`
	Kind      MeasurementKind `json:"kind,omitempty"`
	Value     float64         `json:"value"`
	Unit      string          `json:"unit,omitempty"`
	Center    *Point          `json:"center,omitempty"`
	Message   string          `json:"message,omitempty"`
	ErrorKind ErrorKind       `json:"error_kind,omitempty"`
}

//Personal.AI order the ending
