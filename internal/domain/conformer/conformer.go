// Package conformer generates 3D coordinates for a molecular graph.
//
// Coordinates come from distance geometry: a bounds matrix built from ideal
// bond lengths, bond angles and torsion ranges is triangle-smoothed, random
// distances are drawn inside it, and the metric matrix is projected onto its
// three principal eigenvectors before an error-function refinement that also
// enforces tetrahedral chirality. The result can then be relaxed with a small
// valence force field minimised by L-BFGS.
package conformer

import (
	"context"
	"math/rand"
	"time"

	"github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

const (
	// DefaultSeed is the fixed seed of reproducible embeddings.
	DefaultSeed int64 = 42

	// DefaultMaxAttempts bounds the random restarts per fragment.
	DefaultMaxAttempts = 10

	// DefaultMaxIterations bounds the force-field L-BFGS iterations.
	DefaultMaxIterations = 200
)

var errNonFinite = errors.New(errors.ErrCodeOptimizationFailed, "minimisation produced non-finite coordinates")

// Options controls Generate.
type Options struct {
	// Seed is used when Seeded is true; otherwise each call draws a fresh
	// time-based seed and the coordinates are not reproducible.
	Seed   int64
	Seeded bool

	// Optimize runs the force field after embedding.
	Optimize bool

	MaxAttempts   int
	MaxIterations int
}

// Reproducible returns the options of a seeded, force-field optimised run.
func Reproducible() Options {
	return Options{Seed: DefaultSeed, Seeded: true, Optimize: true}
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if !o.Seeded {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// Result summarises a Generate call.
type Result struct {
	Seed          int64
	Attempts      int
	Optimized     bool
	InitialEnergy float64
	FinalEnergy   float64
}

// Generate embeds m in 3D and attaches the conformer to it. Hydrogens are
// embedded only if they are explicit atoms. Failure to embed returns an
// ErrCodeEmbeddingFailed error and leaves m without a conformer; a deadline
// on ctx returns ErrCodeTimeout.
func Generate(ctx context.Context, m *molecule.Molecule, opts Options) (*Result, error) {
	if m == nil || m.NumAtoms() == 0 {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "molecule has no atoms")
	}
	opts = opts.withDefaults()
	m.Conformer = nil

	t := newTopology(m)
	rng := rand.New(rand.NewSource(opts.Seed))
	pos, attempts, err := embed(ctx, m, t, rng, opts.MaxAttempts)
	res := &Result{Seed: opts.Seed, Attempts: attempts}
	if err != nil {
		return res, classify(ctx, err, errors.ErrCodeEmbeddingFailed, "3D embedding failed")
	}

	if opts.Optimize {
		ff := newForceField(t)
		x := flatten(pos)
		res.InitialEnergy = ff.energy(x, nil)
		out, energy, err := minimize(ctx, ff.energy, x, opts.MaxIterations)
		if err != nil {
			return res, classify(ctx, err, errors.ErrCodeOptimizationFailed, "force-field optimisation failed")
		}
		pos = unflatten(out)
		res.FinalEnergy = energy
		res.Optimized = true
	}

	if err := m.SetConformer(pos, true); err != nil {
		return res, err
	}
	return res, nil
}

// Optimize relaxes the existing conformer of m with the force field.
func Optimize(ctx context.Context, m *molecule.Molecule, maxIterations int) (*Result, error) {
	pos := m.Positions()
	if pos == nil {
		return nil, errors.New(errors.ErrCodeOptimizationFailed, "molecule has no conformer")
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	ff := newForceField(newTopology(m))
	x := flatten(pos)
	res := &Result{InitialEnergy: ff.energy(x, nil)}
	out, energy, err := minimize(ctx, ff.energy, x, maxIterations)
	if err != nil {
		return res, classify(ctx, err, errors.ErrCodeOptimizationFailed, "force-field optimisation failed")
	}
	res.FinalEnergy = energy
	res.Optimized = true
	return res, m.SetConformer(unflatten(out), true)
}

// Energy returns the force-field energy of the current conformer of m.
func Energy(m *molecule.Molecule) (float64, error) {
	pos := m.Positions()
	if pos == nil {
		return 0, errors.New(errors.ErrCodeOptimizationFailed, "molecule has no conformer")
	}
	return newForceField(newTopology(m)).energy(flatten(pos), nil), nil
}

func classify(ctx context.Context, err error, code errors.ErrorCode, msg string) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "conformer generation exceeded its deadline")
	}
	var app *errors.AppError
	if errors.As(err, &app) {
		return err
	}
	return errors.Wrap(err, code, msg)
}

//Personal.AI order the ending
