// Package molecule is the application layer of the molecule explorer. It
// composes the chemistry engine (parse, hydrogens, conformer, descriptors,
// depiction) into the request-level operations served over HTTP and the CLI,
// and attaches the optional result cache, event stream and artifact store.
package molecule

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/conformer"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/depict"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/descriptor"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/geometry"
	"github.com/MathioLucas/Molecular-expolrer/internal/domain/measure"
	domainmol "github.com/MathioLucas/Molecular-expolrer/internal/domain/molecule"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/database/redis"
	kafkainfra "github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/messaging/kafka"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/prometheus"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/storage/minio"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// Client-facing messages.
const (
	MsgInvalidSMILES    = "Invalid SMILES string"
	MsgNoConformer      = "Failed to generate 3D coordinates"
	MsgProcessingPrefix = "Error processing molecule: "
	MsgExportPrefix     = "Error exporting PDB: "
	MsgExampleNotFound  = "Example molecule not found"
)

// Pipeline stage names used for metrics and logs.
const (
	stageParse       = "parse"
	stageEmbed       = "embed"
	stageDescriptors = "descriptors"
	stageDepict      = "depict"
	stagePDB         = "pdb"
)

const cacheName = "structure"

// Service defines the application operations of the molecule explorer.
type Service interface {
	// ProcessMolecule runs the full structure pipeline. It never returns an
	// error: every failure is folded into the Outcome.
	ProcessMolecule(ctx context.Context, req moltypes.StructureRequest) Outcome

	// Example looks up a catalogue molecule by name.
	Example(name string) moltypes.ExampleResponse

	// Examples lists the catalogue names.
	Examples() moltypes.ExampleListResponse

	// ExportPDB embeds and optimises smiles and returns it as PDB text.
	ExportPDB(ctx context.Context, smiles string) moltypes.PDBResponse

	// Measure computes a distance, angle or dihedral over client coordinates.
	Measure(req moltypes.MeasureRequest) moltypes.MeasureResponse
}

// EventPublisher publishes domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, eventType, key string, payload interface{}) error
}

// Option configures optional collaborators of the service.
type Option func(*service)

// WithCache enables caching of reproducible (optimize_3d) results.
func WithCache(c redis.Cache) Option {
	return func(s *service) { s.cache = c }
}

// WithEventPublisher emits a domain event for every processed request.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *service) { s.events = p }
}

// WithArtifactStore uploads PDB exports and returns presigned links.
func WithArtifactStore(a minio.ArtifactStore) Option {
	return func(s *service) { s.artifacts = a }
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *service) {
		if m != nil {
			s.metrics = m
		}
	}
}

type service struct {
	cfg       config.ChemConfig
	slots     *semaphore.Weighted
	cache     redis.Cache
	events    EventPublisher
	artifacts minio.ArtifactStore
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
}

// NewService creates the molecule application service. Zero fields of cfg
// fall back to the config package defaults.
func NewService(cfg config.ChemConfig, logger logging.Logger, opts ...Option) Service {
	if cfg.ComputeTimeout <= 0 {
		cfg.ComputeTimeout = config.DefaultComputeTimeout
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = config.DefaultMaxConcurrency()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = config.DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &service{
		cfg:     cfg,
		slots:   semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		metrics: prometheus.NewNoopAppMetrics(),
		logger:  logger.Named("molecule"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// POST /molecule
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) ProcessMolecule(ctx context.Context, req moltypes.StructureRequest) Outcome {
	start := time.Now()
	out, hit := s.process(ctx, req)
	s.finish(ctx, req, out, hit, start)
	return out
}

// process runs the pipeline for one request. A panic anywhere in the engine
// becomes a computation failure.
func (s *service) process(ctx context.Context, req moltypes.StructureRequest) (out Outcome, hit bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logPanic("process", req.SMILES, rec)
			out, hit = ComputationFailure(MsgProcessingPrefix+fmt.Sprint(rec)), false
		}
	}()

	optimize, hydrogens := req.WantsOptimize3D(), req.WantsHydrogens()

	parsed, err := s.parse(req.SMILES)
	if err != nil {
		s.logger.Debug("SMILES rejected", logging.String("smiles", req.SMILES), logging.Err(err))
		return InvalidInput(MsgInvalidSMILES), false
	}

	var payload *moltypes.MoleculePayload
	if optimize && s.cfg.CacheEnabled && s.cache != nil {
		payload, hit, err = s.cached(ctx, req.SMILES, hydrogens, parsed)
	} else {
		payload, err = s.compute(ctx, parsed, optimize, hydrogens)
	}
	if err != nil {
		s.logger.Warn("Molecule processing failed",
			logging.String("smiles", req.SMILES),
			logging.String("code", string(errors.GetCode(err))),
			logging.Err(err))
		return ComputationFailure(processingFailure(err)), false
	}
	return Succeeded(payload), hit
}

func (s *service) logPanic(op, smiles string, rec interface{}) {
	s.logger.Error("Recovered from engine panic",
		logging.String("operation", op),
		logging.String("smiles", smiles),
		logging.String("panic", fmt.Sprint(rec)),
		logging.String("stack", string(debug.Stack())))
}

func (s *service) parse(smiles string) (*domainmol.Molecule, error) {
	t := time.Now()
	m, err := domainmol.Parse(smiles)
	prometheus.RecordStage(s.metrics, stageParse, time.Since(t))
	return m, err
}

// cached serves reproducible results through the cache. Seeded embeddings
// are deterministic, so the request flags fully determine the payload. Only
// a value read back from the cache counts as a hit; callers that shared a
// concurrent load count as misses. A loader failure is returned as is, and
// any other cache failure falls back to computing.
func (s *service) cached(ctx context.Context, smiles string, hydrogens bool, parsed *domainmol.Molecule) (*moltypes.MoleculePayload, bool, error) {
	var payload moltypes.MoleculePayload
	hit, err := s.cache.GetOrSet(ctx, structureCacheKey(smiles, hydrogens), &payload, s.cfg.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.compute(ctx, parsed, true, hydrogens)
		})

	var loadErr *redis.LoadError
	switch {
	case errors.As(err, &loadErr):
		prometheus.RecordCacheAccess(s.metrics, cacheName, false)
		return nil, false, loadErr.Err
	case err != nil:
		s.logger.Warn("Structure cache unavailable, computing directly", logging.Err(err))
		p, err := s.compute(ctx, parsed, true, hydrogens)
		prometheus.RecordCacheAccess(s.metrics, cacheName, false)
		return p, false, err
	}
	prometheus.RecordCacheAccess(s.metrics, cacheName, hit)
	return &payload, hit, nil
}

func structureCacheKey(smiles string, hydrogens bool) string {
	return fmt.Sprintf("structure:v1:h=%t:%s", hydrogens, smiles)
}

// compute runs everything after parsing: hydrogens, embedding, records,
// descriptors and the 2D depiction.
func (s *service) compute(ctx context.Context, parsed *domainmol.Molecule, optimize, hydrogens bool) (*moltypes.MoleculePayload, error) {
	var mol *domainmol.Molecule
	if hydrogens {
		mol = domainmol.AddHydrogens(parsed)
	} else {
		mol = parsed.Clone()
	}

	if err := s.embed(ctx, mol, embedOptions(s.cfg, optimize)); err != nil {
		return nil, err
	}

	payload := &moltypes.MoleculePayload{
		Atoms: atomRecords(mol),
		Bonds: bondRecords(mol),
	}

	t := time.Now()
	desc, err := descriptor.Calculate(mol)
	prometheus.RecordStage(s.metrics, stageDescriptors, time.Since(t))
	if err != nil {
		return nil, err
	}
	payload.Descriptors = desc

	// The depiction never shows added hydrogens and must not touch the 3D
	// coordinates of mol.
	var view *domainmol.Molecule
	if hydrogens {
		view = domainmol.RemoveHydrogens(mol)
	} else {
		view = parsed.Clone()
	}
	t = time.Now()
	svg, err := depict.Depict(view, depict.DefaultOptions())
	prometheus.RecordStage(s.metrics, stageDepict, time.Since(t))
	if err != nil {
		return nil, err
	}
	payload.SVG = svg
	return payload, nil
}

func embedOptions(cfg config.ChemConfig, optimize bool) conformer.Options {
	opts := conformer.Options{
		Optimize:      optimize,
		MaxAttempts:   cfg.EmbedAttempts,
		MaxIterations: cfg.MaxIterations,
	}
	if optimize {
		opts.Seed = conformer.DefaultSeed
		opts.Seeded = true
	}
	return opts
}

// embed enforces the atom limit, waits for a compute slot and generates
// coordinates, all within the compute deadline.
func (s *service) embed(ctx context.Context, mol *domainmol.Molecule, opts conformer.Options) error {
	n := mol.NumAtoms()
	if s.cfg.MaxAtoms > 0 && n > s.cfg.MaxAtoms {
		return errors.Newf(errors.ErrCodeMoleculeTooLarge,
			"molecule has %d atoms, limit is %d", n, s.cfg.MaxAtoms)
	}
	s.metrics.MoleculeAtoms.WithLabelValues().Observe(float64(n))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ComputeTimeout)
	defer cancel()

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "timed out waiting for a compute slot")
	}
	defer s.slots.Release(1)
	active := s.metrics.ActiveComputations.WithLabelValues()
	active.Inc()
	defer active.Dec()

	t := time.Now()
	res, err := conformer.Generate(ctx, mol, opts)
	prometheus.RecordStage(s.metrics, stageEmbed, time.Since(t))
	if res != nil {
		s.metrics.EmbeddingAttempts.WithLabelValues().Observe(float64(res.Attempts))
	}
	if err != nil {
		return err
	}
	if mol.Positions() == nil {
		return errors.New(errors.ErrCodeEmbeddingFailed, "no conformer generated")
	}
	return nil
}

// processingFailure renders the message of a failed structure request.
func processingFailure(err error) string {
	if errors.IsCode(err, errors.ErrCodeEmbeddingFailed) {
		return MsgNoConformer
	}
	return MsgProcessingPrefix + errors.Message(err)
}

func (s *service) finish(ctx context.Context, req moltypes.StructureRequest, out Outcome, hit bool, start time.Time) {
	elapsed := time.Since(start)
	prometheus.RecordOutcome(s.metrics, "process", out.Kind.String())

	if s.events == nil {
		return
	}
	event := kafkainfra.MoleculeProcessedPayload{
		SMILES:           req.SMILES,
		Success:          out.OK(),
		ErrorKind:        string(out.ErrorKind()),
		Message:          out.Reason,
		Optimize3D:       req.WantsOptimize3D(),
		IncludeHydrogens: req.WantsHydrogens(),
		CacheHit:         hit,
		DurationMs:       elapsed.Milliseconds(),
	}
	if out.OK() {
		event.AtomCount = len(out.Payload.Atoms)
		event.BondCount = len(out.Payload.Bonds)
		if out.Payload.Descriptors != nil {
			event.Formula = out.Payload.Descriptors.Formula
		}
	}
	s.publish(ctx, kafkainfra.TopicMoleculeProcessed, kafkainfra.EventTypeMoleculeProcessed, req.SMILES, event)
}

func (s *service) publish(ctx context.Context, topic, eventType, key string, payload interface{}) {
	err := s.events.PublishEvent(ctx, topic, eventType, key, payload)
	prometheus.RecordPublish(s.metrics, topic, err)
	if err != nil {
		s.logger.Warn("Failed to publish event",
			logging.String("topic", topic),
			logging.String("event_type", eventType),
			logging.Err(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────────────────────────────────────

func atomRecords(m *domainmol.Molecule) []moltypes.AtomRecord {
	pos := m.Positions()
	out := make([]moltypes.AtomRecord, len(m.Atoms))
	for i := range m.Atoms {
		a := &m.Atoms[i]
		out[i] = moltypes.AtomRecord{
			Index:      i,
			Element:    a.Symbol(),
			X:          pos[i].X,
			Y:          pos[i].Y,
			Z:          pos[i].Z,
			Charge:     float64(a.Charge),
			IsAromatic: a.Aromatic,
			IsInRing:   a.InRing,
		}
	}
	return out
}

func bondRecords(m *domainmol.Molecule) []moltypes.BondRecord {
	out := make([]moltypes.BondRecord, len(m.Bonds))
	for i := range m.Bonds {
		b := &m.Bonds[i]
		out[i] = moltypes.BondRecord{
			Begin:        b.Begin,
			End:          b.End,
			BondType:     moltypes.BondType(b.Order.TypeName()),
			IsAromatic:   b.Aromatic,
			IsConjugated: b.Conjugated,
			IsInRing:     b.InRing,
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Examples
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) Example(name string) moltypes.ExampleResponse {
	smiles, ok := LookupExample(name)
	if !ok {
		return moltypes.ExampleResponse{Success: false, Message: MsgExampleNotFound}
	}
	return moltypes.ExampleResponse{Success: true, SMILES: smiles}
}

func (s *service) Examples() moltypes.ExampleListResponse {
	return moltypes.ExampleListResponse{Success: true, Names: ExampleNames()}
}

// ─────────────────────────────────────────────────────────────────────────────
// PDB export
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) ExportPDB(ctx context.Context, smiles string) moltypes.PDBResponse {
	resp, atoms, key := s.exportPDB(ctx, smiles)
	if resp.ErrorKind == moltypes.ErrorKindInvalidInput {
		prometheus.RecordOutcome(s.metrics, "export_pdb", OutcomeInvalidInput.String())
		return resp
	}

	outcome := OutcomeSuccess
	if !resp.Success {
		outcome = OutcomeComputationFailure
	}
	prometheus.RecordOutcome(s.metrics, "export_pdb", outcome.String())

	if s.events != nil {
		s.publish(ctx, kafkainfra.TopicMoleculeExported, kafkainfra.EventTypePDBExported, smiles,
			kafkainfra.PDBExportedPayload{
				SMILES:    smiles,
				Success:   resp.Success,
				Message:   resp.Message,
				AtomCount: atoms,
				ObjectKey: key,
			})
	}
	return resp
}

func exportFailure(reason string) moltypes.PDBResponse {
	return moltypes.PDBResponse{
		Success:   false,
		Message:   MsgExportPrefix + reason,
		ErrorKind: moltypes.ErrorKindComputationFailure,
	}
}

// exportPDB parses, embeds and writes smiles. A panic anywhere in the engine
// becomes an export failure.
func (s *service) exportPDB(ctx context.Context, smiles string) (resp moltypes.PDBResponse, atoms int, key string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logPanic("export_pdb", smiles, rec)
			resp, atoms, key = exportFailure(fmt.Sprint(rec)), 0, ""
		}
	}()

	parsed, err := s.parse(smiles)
	if err != nil {
		return moltypes.PDBResponse{Success: false, Message: MsgInvalidSMILES, ErrorKind: moltypes.ErrorKindInvalidInput}, 0, ""
	}

	fail := func(err error) (moltypes.PDBResponse, int, string) {
		s.logger.Warn("PDB export failed", logging.String("smiles", smiles), logging.Err(err))
		return exportFailure(errors.Message(err)), 0, ""
	}

	mol := domainmol.AddHydrogens(parsed)
	opts := embedOptions(s.cfg, true)
	opts.Seeded = false
	if err := s.embed(ctx, mol, opts); err != nil {
		return fail(err)
	}

	t := time.Now()
	pdb, err := domainmol.WritePDB(mol)
	prometheus.RecordStage(s.metrics, stagePDB, time.Since(t))
	if err != nil {
		return fail(err)
	}

	resp = moltypes.PDBResponse{Success: true, PDB: pdb}
	if s.artifacts != nil {
		art, err := s.artifacts.PutPDB(ctx, smiles, pdb)
		prometheus.RecordUpload(s.metrics, "pdb", err)
		if err != nil {
			s.logger.Warn("PDB upload failed, returning inline text only", logging.Err(err))
		} else {
			resp.URL = art.URL
			key = art.ObjectKey
		}
	}
	return resp, mol.NumAtoms(), key
}

// ─────────────────────────────────────────────────────────────────────────────
// Measurements
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) Measure(req moltypes.MeasureRequest) moltypes.MeasureResponse {
	pts := make([]geometry.Vec3, len(req.Atoms))
	for i, p := range req.Atoms {
		pts[i] = geometry.Vec3{X: p.X, Y: p.Y, Z: p.Z}
	}
	m, err := measure.Measure(pts, req.Indices)
	if err != nil {
		prometheus.RecordOutcome(s.metrics, "measure", OutcomeInvalidInput.String())
		return moltypes.MeasureResponse{
			Success:   false,
			Message:   errors.Message(err),
			ErrorKind: moltypes.ErrorKindInvalidInput,
		}
	}
	prometheus.RecordOutcome(s.metrics, "measure", OutcomeSuccess.String())
	return moltypes.MeasureResponse{
		Success: true,
		Kind:    moltypes.MeasurementKind(m.Kind),
		Value:   m.Value,
		Unit:    m.Kind.Unit(),
		Center:  &moltypes.Point{X: m.Center.X, Y: m.Center.Y, Z: m.Center.Z},
	}
}

//Personal.AI order the ending
