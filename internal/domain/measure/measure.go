// Package measure computes the interactive geometry readouts of the viewer:
// a distance between two atoms, a bond angle over three and a dihedral over
// four, together with the centroid of the whole structure.
package measure

import (
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// Kind is the quantity selected by the number of indices.
type Kind string

const (
	KindDistance Kind = "distance"
	KindAngle    Kind = "angle"
	KindDihedral Kind = "dihedral"
)

// Unit returns the unit of a measurement of this kind.
func (k Kind) Unit() string {
	if k == KindDistance {
		return "Å"
	}
	return "deg"
}

// Measurement is one computed readout. Value is rounded to 3 decimals.
type Measurement struct {
	Kind   Kind
	Value  float64
	Center geometry.Vec3
}

// Measure selects atoms of pts by index: two give a distance, three the
// angle at the middle atom and four the dihedral about the central bond.
// Repeated indices, out-of-range indices and non-finite coordinates are
// rejected with ErrCodeMeasurementInvalid.
func Measure(pts []geometry.Vec3, indices []int) (*Measurement, error) {
	if len(indices) < 2 || len(indices) > 4 {
		return nil, errors.Newf(errors.ErrCodeMeasurementInvalid,
			"need 2, 3 or 4 atom indices, got %d", len(indices))
	}
	seen := make(map[int]bool, len(indices))
	sel := make([]geometry.Vec3, len(indices))
	for k, i := range indices {
		if i < 0 || i >= len(pts) {
			return nil, errors.Newf(errors.ErrCodeMeasurementInvalid,
				"atom index %d out of range [0,%d)", i, len(pts))
		}
		if seen[i] {
			return nil, errors.Newf(errors.ErrCodeMeasurementInvalid, "atom index %d repeated", i)
		}
		if !pts[i].IsFinite() {
			return nil, errors.Newf(errors.ErrCodeMeasurementInvalid, "atom %d has non-finite coordinates", i)
		}
		seen[i] = true
		sel[k] = pts[i]
	}

	m := &Measurement{Center: geometry.Centroid(pts)}
	switch len(sel) {
	case 2:
		m.Kind, m.Value = KindDistance, geometry.Distance(sel[0], sel[1])
	case 3:
		m.Kind, m.Value = KindAngle, geometry.Angle(sel[0], sel[1], sel[2])
	default:
		m.Kind, m.Value = KindDihedral, geometry.Dihedral(sel[0], sel[1], sel[2], sel[3])
	}
	m.Value = geometry.Round(m.Value, 3)
	return m, nil
}

//Personal.AI order the ending
