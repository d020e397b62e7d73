package molecule

import "strings"

// Element holds the per-element constants the toolkit needs: masses for
// descriptors, radii for geometry and colours for rendering.
type Element struct {
	Symbol    string
	Number    int
	Mass      float64 // standard atomic weight
	ExactMass float64 // most abundant isotope

	// Covalent radii (Pyykkö) for single, double and triple bonds, in Å.
	// Zero multi-bond radii fall back to the single-bond radius.
	Radius1 float64
	Radius2 float64
	Radius3 float64

	VdwRadius float64
	Valences  []int  // allowed neutral valences, ascending; nil means no implicit H model
	Color     string // CPK hex colour
}

// DefaultColor is used for elements without a dedicated CPK colour.
const DefaultColor = "#E8E8E8"

var elementTable = []Element{
	{"*", 0, 0, 0, 0.75, 0, 0, 1.70, nil, DefaultColor},
	{"H", 1, 1.008, 1.00782503207, 0.32, 0, 0, 1.20, []int{1}, "#FFFFFF"},
	{"He", 2, 4.003, 4.00260325415, 0.46, 0, 0, 1.40, nil, DefaultColor},
	{"Li", 3, 6.941, 7.016004548, 1.33, 0, 0, 1.82, nil, DefaultColor},
	{"Be", 4, 9.012, 9.012182201, 1.02, 0.90, 0.85, 1.53, nil, DefaultColor},
	{"B", 5, 10.812, 11.009305406, 0.85, 0.78, 0.73, 1.92, []int{3}, "#FFB5B5"},
	{"C", 6, 12.011, 12.0, 0.75, 0.67, 0.60, 1.70, []int{4}, "#909090"},
	{"N", 7, 14.007, 14.0030740048, 0.71, 0.60, 0.54, 1.55, []int{3}, "#3050F8"},
	{"O", 8, 15.999, 15.99491461956, 0.63, 0.57, 0.53, 1.52, []int{2}, "#FF0D0D"},
	{"F", 9, 18.998, 18.99840322, 0.64, 0.59, 0.53, 1.47, []int{1}, "#90E050"},
	{"Ne", 10, 20.18, 19.9924401754, 0.67, 0.96, 0, 1.54, nil, DefaultColor},
	{"Na", 11, 22.99, 22.9897692809, 1.55, 1.60, 0, 2.27, nil, DefaultColor},
	{"Mg", 12, 24.305, 23.9850417, 1.39, 1.32, 1.27, 1.73, nil, DefaultColor},
	{"Al", 13, 26.982, 26.98153863, 1.26, 1.13, 1.11, 1.84, nil, DefaultColor},
	{"Si", 14, 28.086, 27.9769265325, 1.16, 1.07, 1.02, 2.10, []int{4}, DefaultColor},
	{"P", 15, 30.974, 30.97376163, 1.11, 1.02, 0.94, 1.80, []int{3, 5, 7}, "#FF8000"},
	{"S", 16, 32.067, 31.972071, 1.03, 0.94, 0.95, 1.80, []int{2, 4, 6}, "#FFFF30"},
	{"Cl", 17, 35.453, 34.96885268, 0.99, 0.95, 0.93, 1.75, []int{1}, "#1FF01F"},
	{"Ar", 18, 39.948, 39.9623831225, 0.96, 1.07, 0.96, 1.88, nil, DefaultColor},
	{"K", 19, 39.098, 38.96370668, 1.96, 1.93, 0, 2.75, nil, DefaultColor},
	{"Ca", 20, 40.078, 39.96259098, 1.71, 1.47, 1.33, 2.31, nil, DefaultColor},
	{"Sc", 21, 44.956, 44.9559119, 1.48, 1.16, 1.14, 2.11, nil, DefaultColor},
	{"Ti", 22, 47.867, 47.9479463, 1.36, 1.17, 1.08, 2.00, nil, DefaultColor},
	{"V", 23, 50.942, 50.9439595, 1.34, 1.12, 1.06, 2.00, nil, DefaultColor},
	{"Cr", 24, 51.996, 51.9405075, 1.22, 1.11, 1.03, 2.00, nil, DefaultColor},
	{"Mn", 25, 54.938, 54.9380451, 1.19, 1.05, 1.03, 2.00, nil, DefaultColor},
	{"Fe", 26, 55.845, 55.9349375, 1.16, 1.09, 1.02, 2.00, nil, DefaultColor},
	{"Co", 27, 58.933, 58.933195, 1.11, 1.03, 0.96, 2.00, nil, DefaultColor},
	{"Ni", 28, 58.693, 57.9353429, 1.10, 1.01, 1.01, 1.63, nil, DefaultColor},
	{"Cu", 29, 63.546, 62.9295975, 1.12, 1.15, 1.20, 1.40, nil, DefaultColor},
	{"Zn", 30, 65.39, 63.9291422, 1.18, 1.20, 0, 1.39, nil, DefaultColor},
	{"Ga", 31, 69.723, 68.9255736, 1.24, 1.17, 1.21, 1.87, nil, DefaultColor},
	{"Ge", 32, 72.61, 73.9211778, 1.21, 1.11, 1.14, 2.11, nil, DefaultColor},
	{"As", 33, 74.922, 74.9215965, 1.21, 1.14, 1.06, 1.85, []int{3, 5}, DefaultColor},
	{"Se", 34, 78.96, 79.9165213, 1.16, 1.07, 1.07, 1.90, []int{2, 4, 6}, DefaultColor},
	{"Br", 35, 79.904, 78.9183371, 1.14, 1.09, 1.10, 1.85, []int{1}, "#A62929"},
	{"Kr", 36, 83.8, 83.911507, 1.17, 1.21, 1.08, 2.02, nil, DefaultColor},
	{"Rb", 37, 85.468, 84.911789738, 2.10, 2.02, 0, 3.03, nil, DefaultColor},
	{"Sr", 38, 87.62, 87.9056121, 1.85, 1.57, 1.39, 2.49, nil, DefaultColor},
	{"Y", 39, 88.906, 88.9058483, 1.63, 1.30, 1.24, 2.00, nil, DefaultColor},
	{"Zr", 40, 91.224, 89.9047044, 1.54, 1.27, 1.21, 2.00, nil, DefaultColor},
	{"Nb", 41, 92.906, 92.9063781, 1.47, 1.25, 1.16, 2.00, nil, DefaultColor},
	{"Mo", 42, 95.94, 97.9054082, 1.38, 1.21, 1.13, 2.00, nil, DefaultColor},
	{"Tc", 43, 98.0, 97.907216, 1.28, 1.20, 1.10, 2.00, nil, DefaultColor},
	{"Ru", 44, 101.07, 101.9043493, 1.25, 1.14, 1.03, 2.00, nil, DefaultColor},
	{"Rh", 45, 102.906, 102.905504, 1.25, 1.10, 1.06, 2.00, nil, DefaultColor},
	{"Pd", 46, 106.42, 105.903486, 1.20, 1.17, 1.12, 1.63, nil, DefaultColor},
	{"Ag", 47, 107.868, 106.905097, 1.28, 1.39, 1.37, 1.72, nil, DefaultColor},
	{"Cd", 48, 112.411, 113.9033585, 1.36, 1.44, 0, 1.58, nil, DefaultColor},
	{"In", 49, 114.818, 114.903878, 1.42, 1.36, 1.46, 1.93, nil, DefaultColor},
	{"Sn", 50, 118.71, 119.9021947, 1.40, 1.30, 1.32, 2.17, nil, DefaultColor},
	{"Sb", 51, 121.76, 120.9038157, 1.40, 1.33, 1.27, 2.06, []int{3, 5}, DefaultColor},
	{"Te", 52, 127.6, 129.9062244, 1.36, 1.28, 1.21, 2.06, []int{2, 4, 6}, DefaultColor},
	{"I", 53, 126.904, 126.904473, 1.33, 1.29, 1.25, 1.98, []int{1, 3, 5}, "#940094"},
	{"Xe", 54, 131.29, 131.9041535, 1.31, 1.35, 1.22, 2.16, nil, DefaultColor},
	{"Cs", 55, 132.905, 132.905451933, 2.32, 2.09, 0, 3.43, nil, DefaultColor},
	{"Ba", 56, 137.327, 137.9052472, 1.96, 1.61, 1.49, 2.68, nil, DefaultColor},
	{"La", 57, 138.906, 138.9063533, 1.80, 1.39, 1.39, 2.00, nil, DefaultColor},
	{"Ce", 58, 140.116, 139.9054387, 1.63, 1.37, 1.31, 2.00, nil, DefaultColor},
	{"Pr", 59, 140.908, 140.9076528, 1.76, 1.38, 1.28, 2.00, nil, DefaultColor},
	{"Nd", 60, 144.24, 141.9077233, 1.74, 1.37, 0, 2.00, nil, DefaultColor},
	{"Pm", 61, 145.0, 144.912749, 1.73, 1.35, 0, 2.00, nil, DefaultColor},
	{"Sm", 62, 150.36, 151.9197324, 1.72, 1.34, 0, 2.00, nil, DefaultColor},
	{"Eu", 63, 151.964, 152.9212303, 1.68, 1.34, 0, 2.00, nil, DefaultColor},
	{"Gd", 64, 157.25, 157.9241039, 1.69, 1.35, 1.32, 2.00, nil, DefaultColor},
	{"Tb", 65, 158.925, 158.9253468, 1.68, 1.35, 0, 2.00, nil, DefaultColor},
	{"Dy", 66, 162.5, 163.9291748, 1.67, 1.33, 0, 2.00, nil, DefaultColor},
	{"Ho", 67, 164.93, 164.9303221, 1.66, 1.33, 0, 2.00, nil, DefaultColor},
	{"Er", 68, 167.26, 165.9302931, 1.65, 1.33, 0, 2.00, nil, DefaultColor},
	{"Tm", 69, 168.934, 168.9342133, 1.64, 1.31, 0, 2.00, nil, DefaultColor},
	{"Yb", 70, 173.04, 173.9388621, 1.70, 1.29, 0, 2.00, nil, DefaultColor},
	{"Lu", 71, 174.967, 174.9407718, 1.62, 1.31, 1.31, 2.00, nil, DefaultColor},
	{"Hf", 72, 178.49, 179.94655, 1.52, 1.28, 1.22, 2.00, nil, DefaultColor},
	{"Ta", 73, 180.948, 180.9479958, 1.46, 1.26, 1.19, 2.00, nil, DefaultColor},
	{"W", 74, 183.84, 183.9509312, 1.37, 1.20, 1.15, 2.00, nil, DefaultColor},
	{"Re", 75, 186.207, 186.9557531, 1.31, 1.19, 1.10, 2.00, nil, DefaultColor},
	{"Os", 76, 190.23, 191.9614807, 1.29, 1.16, 1.09, 2.00, nil, DefaultColor},
	{"Ir", 77, 192.217, 192.9629264, 1.22, 1.15, 1.07, 2.00, nil, DefaultColor},
	{"Pt", 78, 195.078, 194.9647911, 1.23, 1.12, 1.10, 1.75, nil, DefaultColor},
	{"Au", 79, 196.967, 196.9665687, 1.24, 1.21, 1.23, 1.66, nil, DefaultColor},
	{"Hg", 80, 200.59, 201.970643, 1.33, 1.42, 0, 1.55, nil, DefaultColor},
	{"Tl", 81, 204.383, 204.9744275, 1.44, 1.42, 1.50, 1.96, nil, DefaultColor},
	{"Pb", 82, 207.2, 207.9766521, 1.44, 1.35, 1.35, 2.02, nil, DefaultColor},
	{"Bi", 83, 208.98, 208.9803987, 1.51, 1.41, 1.35, 2.07, nil, DefaultColor},
	{"Po", 84, 209.0, 208.9824304, 1.45, 1.35, 1.29, 1.97, nil, DefaultColor},
	{"At", 85, 210.0, 209.987148, 1.47, 1.38, 1.38, 2.02, nil, DefaultColor},
	{"Rn", 86, 222.0, 222.0175777, 1.42, 1.45, 1.33, 2.20, nil, DefaultColor},
	{"Fr", 87, 223.0, 223.0197359, 2.23, 2.18, 0, 3.48, nil, DefaultColor},
	{"Ra", 88, 226.0, 226.0254098, 2.01, 1.73, 1.59, 2.83, nil, DefaultColor},
	{"Ac", 89, 227.0, 227.0277521, 1.86, 1.53, 1.40, 2.00, nil, DefaultColor},
	{"Th", 90, 232.038, 232.0380553, 1.75, 1.43, 1.36, 2.00, nil, DefaultColor},
	{"Pa", 91, 231.036, 231.035884, 1.69, 1.38, 1.29, 2.00, nil, DefaultColor},
	{"U", 92, 238.029, 238.0507882, 1.70, 1.34, 1.18, 1.86, nil, DefaultColor},
}

var (
	elementsBySymbol = make(map[string]*Element, len(elementTable))
	elementsByNumber = make(map[int]*Element, len(elementTable))
)

func init() {
	for i := range elementTable {
		e := &elementTable[i]
		elementsBySymbol[e.Symbol] = e
		elementsByNumber[e.Number] = e
	}
}

// isotopeMasses lists exact masses for the labelled isotopes that appear in
// practice. Other isotopes fall back to the mass number.
var isotopeMasses = map[[2]int]float64{
	{1, 2}:  2.0141017778,
	{1, 3}:  3.0160492777,
	{6, 13}: 13.0033548378,
	{6, 14}: 14.003241989,
	{7, 15}: 15.0001088982,
	{8, 17}: 16.9991317,
	{8, 18}: 17.999161,
	{9, 18}: 18.000938,
	{15, 32}: 31.97390727,
	{16, 34}: 33.96786690,
	{16, 35}: 34.96903216,
	{53, 123}: 122.905589,
	{53, 125}: 124.9046302,
	{53, 131}: 130.9061246,
}

// LookupElement returns the element with the given symbol (case-sensitive).
func LookupElement(symbol string) (*Element, bool) {
	e, ok := elementsBySymbol[symbol]
	return e, ok
}

// ElementByNumber returns the element with the given atomic number.
func ElementByNumber(z int) (*Element, bool) {
	e, ok := elementsByNumber[z]
	return e, ok
}

// MustElement panics when symbol is unknown. For package-level tables only.
func MustElement(symbol string) *Element {
	e, ok := elementsBySymbol[symbol]
	if !ok {
		panic("molecule: unknown element " + symbol)
	}
	return e
}

// BondRadius returns the covalent radius for a bond of the given order.
// Aromatic bonds use the mean of the single and double radii.
func (e *Element) BondRadius(order BondOrder) float64 {
	switch order {
	case BondDouble:
		if e.Radius2 > 0 {
			return e.Radius2
		}
	case BondTriple, BondQuadruple:
		if e.Radius3 > 0 {
			return e.Radius3
		}
	case BondAromatic:
		if e.Radius2 > 0 {
			return (e.Radius1 + e.Radius2) / 2
		}
	}
	return e.Radius1
}

// IsotopeMass returns the exact mass of the given isotope of e.
func (e *Element) IsotopeMass(isotope int) float64 {
	if isotope == 0 {
		return e.ExactMass
	}
	if m, ok := isotopeMasses[[2]int{e.Number, isotope}]; ok {
		return m
	}
	return float64(isotope)
}

// aromaticSymbols are the lowercase symbols accepted for aromatic atoms.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

// IsHalogen reports whether z is F, Cl, Br or I.
func IsHalogen(z int) bool {
	return z == 9 || z == 17 || z == 35 || z == 53
}

// ColorFor returns the CPK colour for an element symbol, case-insensitively.
func ColorFor(symbol string) string {
	if e, ok := elementsBySymbol[symbol]; ok {
		return e.Color
	}
	if len(symbol) > 0 {
		norm := strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:])
		if e, ok := elementsBySymbol[norm]; ok {
			return e.Color
		}
	}
	return DefaultColor
}

//Personal.AI order the ending
