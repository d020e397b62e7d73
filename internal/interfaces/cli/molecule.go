package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// structureFlags are shared by the commands that run the structure pipeline.
type structureFlags struct {
	example     string
	noHydrogens bool
	noOptimize  bool
	outFile     string
}

func (f *structureFlags) register(cmd *cobra.Command, pipeline, file bool) {
	cmd.Flags().StringVarP(&f.example, "example", "e", "", "use a catalogue molecule instead of a SMILES argument")
	if pipeline {
		cmd.Flags().BoolVar(&f.noHydrogens, "no-hydrogens", false, "do not add explicit hydrogens")
		cmd.Flags().BoolVar(&f.noOptimize, "no-optimize", false, "skip force-field optimization (unseeded embedding)")
	}
	if file {
		cmd.Flags().StringVarP(&f.outFile, "file", "f", "", "write to file instead of stdout")
	}
}

func (f *structureFlags) request(smiles string) moltypes.StructureRequest {
	return moltypes.StructureRequest{
		SMILES:           smiles,
		Optimize3D:       moltypes.Bool(!f.noOptimize),
		IncludeHydrogens: moltypes.Bool(!f.noHydrogens),
	}
}

// commandEnv is what every one-shot command starts from.
type commandEnv struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cli     *CLIContext
	backend moleculeBackend
}

func newCommandEnv(cmd *cobra.Command) (*commandEnv, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	backend, err := backendFor(cliCtx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	return &commandEnv{ctx: ctx, cancel: cancel, cli: cliCtx, backend: backend}, nil
}

// resolveSMILES returns the --example molecule or the positional argument.
func (e *commandEnv) resolveSMILES(args []string, example string) (string, error) {
	if example != "" {
		resp, err := e.backend.Example(e.ctx, example)
		if err != nil {
			return "", err
		}
		if !resp.Success {
			return "", errors.New(errors.ErrCodeExampleNotFound, resp.Message).WithDetail(example)
		}
		return resp.SMILES, nil
	}
	if len(args) == 0 || args[0] == "" {
		return "", errors.New(errors.ErrCodeBadRequest, "a SMILES argument or --example is required")
	}
	return args[0], nil
}

func (e *commandEnv) process(req moltypes.StructureRequest) (*moltypes.MoleculeResponse, error) {
	resp, err := e.backend.ProcessMolecule(e.ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, failure(resp.ErrorKind, resp.Message)
	}
	return resp, nil
}

// failure turns a success=false response into a command error.
func failure(kind moltypes.ErrorKind, msg string) error {
	if kind == moltypes.ErrorKindInvalidInput {
		return errors.New(errors.ErrCodeValidation, msg)
	}
	return errors.New(errors.ErrCodeInternal, msg)
}

// writeOutput writes text to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write output file")
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(text))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// describe
// ─────────────────────────────────────────────────────────────────────────────

func newDescribeCmd() *cobra.Command {
	f := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "describe [SMILES]",
		Short: "Compute the descriptor table of a molecule",
		Example: `  molx describe "CC(=O)OC1=CC=CC=C1C(=O)O"
  molx describe --example caffeine -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newCommandEnv(cmd)
			if err != nil {
				return err
			}
			defer env.cancel()

			smiles, err := env.resolveSMILES(args, f.example)
			if err != nil {
				return err
			}
			resp, err := env.process(f.request(smiles))
			if err != nil {
				return err
			}
			return PrintResult(cmd, resp.Descriptors, func() string {
				return formatDescriptors(smiles, resp)
			})
		},
	}
	f.register(cmd, true, false)
	return cmd
}

func formatDescriptors(smiles string, resp *moltypes.MoleculeResponse) string {
	d := resp.Descriptors
	yesNo := func(b bool) string {
		if b {
			return "exceeded"
		}
		return "ok"
	}
	rows := [][]string{
		{"SMILES", smiles},
		{"Formula", d.Formula},
		{"MolecularWeight", fmt.Sprintf("%.2f", d.MolecularWeight)},
		{"ExactMass", fmt.Sprintf("%.4f", d.ExactMass)},
		{"HeavyAtomCount", strconv.Itoa(d.HeavyAtomCount)},
		{"AromaticAtomCount", strconv.Itoa(d.AromaticAtomCount)},
		{"AtomCounts", formatAtomCounts(d.AtomCounts)},
		{"LogP", fmt.Sprintf("%.2f", d.LogP)},
		{"MolMR", fmt.Sprintf("%.2f", d.MolMR)},
		{"TPSA", fmt.Sprintf("%.2f", d.TPSA)},
		{"RotatableBondCount", strconv.Itoa(d.RotatableBondCount)},
		{"HBondDonorCount", strconv.Itoa(d.HBondDonorCount)},
		{"HBondAcceptorCount", strconv.Itoa(d.HBondAcceptorCount)},
		{"RingCount", strconv.Itoa(d.RingCount)},
		{"AromaticRingCount", strconv.Itoa(d.AromaticRingCount)},
		{"QEDScore", fmt.Sprintf("%.3f", d.QEDScore)},
		{"LipinskiMWT", yesNo(d.LipinskiMWT)},
		{"LipinskiLogP", yesNo(d.LipinskiLogP)},
		{"LipinskiHBD", yesNo(d.LipinskiHBD)},
		{"LipinskiHBA", yesNo(d.LipinskiHBA)},
		{"LipinskiViolations", strconv.Itoa(d.LipinskiViolations)},
		{"3D atoms / bonds", fmt.Sprintf("%d / %d", len(resp.Atoms), len(resp.Bonds))},
	}
	return FormatTable([]string{"DESCRIPTOR", "VALUE"}, rows)
}

// formatAtomCounts renders element counts in Hill order.
func formatAtomCounts(counts map[string]int) string {
	elements := make([]string, 0, len(counts))
	for el := range counts {
		elements = append(elements, el)
	}
	_, hasC := counts["C"]
	rank := func(el string) int {
		switch {
		case hasC && el == "C":
			return 0
		case hasC && el == "H":
			return 1
		}
		return 2
	}
	sort.Slice(elements, func(i, j int) bool {
		ri, rj := rank(elements[i]), rank(elements[j])
		if ri != rj {
			return ri < rj
		}
		return elements[i] < elements[j]
	})
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = fmt.Sprintf("%s:%d", el, counts[el])
	}
	return strings.Join(parts, " ")
}

// ─────────────────────────────────────────────────────────────────────────────
// pdb / svg
// ─────────────────────────────────────────────────────────────────────────────

func newPDBCmd() *cobra.Command {
	f := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "pdb [SMILES]",
		Short: "Export an optimized 3D structure as PDB",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newCommandEnv(cmd)
			if err != nil {
				return err
			}
			defer env.cancel()

			smiles, err := env.resolveSMILES(args, f.example)
			if err != nil {
				return err
			}
			resp, err := env.backend.ExportPDB(env.ctx, smiles)
			if err != nil {
				return err
			}
			if !resp.Success {
				return failure(resp.ErrorKind, resp.Message)
			}
			if resp.URL != "" {
				env.cli.Logger.Info("PDB uploaded", logging.String("url", resp.URL))
			}
			if env.cli.OutputFormat == "json" {
				return printJSON(cmd, resp)
			}
			return writeOutput(cmd, f.outFile, resp.PDB)
		},
	}
	f.register(cmd, false, true)
	return cmd
}

func newSVGCmd() *cobra.Command {
	f := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "svg [SMILES]",
		Short: "Render the 2D depiction of a molecule as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newCommandEnv(cmd)
			if err != nil {
				return err
			}
			defer env.cancel()

			smiles, err := env.resolveSMILES(args, f.example)
			if err != nil {
				return err
			}
			// The depiction does not depend on the 3D settings.
			req := f.request(smiles)
			req.Optimize3D = moltypes.Bool(false)
			resp, err := env.process(req)
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.outFile, resp.SVG)
		},
	}
	f.register(cmd, false, true)
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// examples
// ─────────────────────────────────────────────────────────────────────────────

type exampleEntry struct {
	Name   string `json:"name"`
	SMILES string `json:"smiles"`
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples [NAME]",
		Short: "List the example molecules or print one SMILES",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newCommandEnv(cmd)
			if err != nil {
				return err
			}
			defer env.cancel()

			if len(args) == 1 {
				smiles, err := env.resolveSMILES(nil, args[0])
				if err != nil {
					return err
				}
				entry := exampleEntry{Name: args[0], SMILES: smiles}
				return PrintResult(cmd, entry, func() string { return smiles + "\n" })
			}

			names, err := env.backend.Examples(env.ctx)
			if err != nil {
				return err
			}
			entries := make([]exampleEntry, 0, len(names))
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				smiles, err := env.resolveSMILES(nil, name)
				if err != nil {
					return err
				}
				entries = append(entries, exampleEntry{Name: name, SMILES: smiles})
				rows = append(rows, []string{name, smiles})
			}
			return PrintResult(cmd, entries, func() string {
				return FormatTable([]string{"NAME", "SMILES"}, rows)
			})
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// measure
// ─────────────────────────────────────────────────────────────────────────────

func newMeasureCmd() *cobra.Command {
	f := &structureFlags{}
	cmd := &cobra.Command{
		Use:   "measure SMILES I J [K [L]]",
		Short: "Measure a distance, angle or dihedral on the optimized structure",
		Long: "Embeds SMILES (hydrogens included unless --no-hydrogens) and measures\n" +
			"between the atoms at the given indices: two indices give a distance in Å,\n" +
			"three an angle and four a dihedral in degrees.",
		Example: `  molx measure CCO 0 1
  molx measure CCO 0 1 2`,
		Args: cobra.RangeArgs(3, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices := make([]int, 0, len(args)-1)
			for _, a := range args[1:] {
				i, err := strconv.Atoi(a)
				if err != nil {
					return errors.New(errors.ErrCodeBadRequest, "atom index must be an integer").WithDetail(a)
				}
				indices = append(indices, i)
			}

			env, err := newCommandEnv(cmd)
			if err != nil {
				return err
			}
			defer env.cancel()

			mol, err := env.process(f.request(args[0]))
			if err != nil {
				return err
			}
			points := make([]moltypes.Point, len(mol.Atoms))
			for i, a := range mol.Atoms {
				points[i] = moltypes.Point{X: a.X, Y: a.Y, Z: a.Z}
			}

			resp, err := env.backend.Measure(env.ctx, moltypes.MeasureRequest{Atoms: points, Indices: indices})
			if err != nil {
				return err
			}
			if !resp.Success {
				return failure(resp.ErrorKind, resp.Message)
			}
			return PrintResult(cmd, resp, func() string {
				labels := make([]string, len(indices))
				for i, idx := range indices {
					labels[i] = fmt.Sprintf("%s%d", mol.Atoms[idx].Element, idx)
				}
				return fmt.Sprintf("%s %s = %.3f %s\n", resp.Kind, strings.Join(labels, "-"), resp.Value, resp.Unit)
			})
		},
	}
	cmd.Flags().BoolVar(&f.noHydrogens, "no-hydrogens", false, "do not add explicit hydrogens")
	return cmd
}

//Personal.AI order the ending
