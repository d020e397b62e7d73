package cli

import (
	"context"

	appmol "github.com/MathioLucas/Molecular-expolrer/internal/application/molecule"
	"github.com/MathioLucas/Molecular-expolrer/pkg/client"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// moleculeBackend serves the one-shot commands. *client.Client satisfies it
// for --server; localBackend runs the pipeline in-process.
type moleculeBackend interface {
	ProcessMolecule(ctx context.Context, req moltypes.StructureRequest) (*moltypes.MoleculeResponse, error)
	Example(ctx context.Context, name string) (*moltypes.ExampleResponse, error)
	Examples(ctx context.Context) ([]string, error)
	ExportPDB(ctx context.Context, smiles string) (*moltypes.PDBResponse, error)
	Measure(ctx context.Context, req moltypes.MeasureRequest) (*moltypes.MeasureResponse, error)
}

var _ moleculeBackend = (*client.Client)(nil)

type localBackend struct {
	svc appmol.Service
}

func (b localBackend) ProcessMolecule(ctx context.Context, req moltypes.StructureRequest) (*moltypes.MoleculeResponse, error) {
	resp := b.svc.ProcessMolecule(ctx, req).Response()
	return &resp, nil
}

func (b localBackend) Example(_ context.Context, name string) (*moltypes.ExampleResponse, error) {
	resp := b.svc.Example(name)
	return &resp, nil
}

func (b localBackend) Examples(context.Context) ([]string, error) {
	return b.svc.Examples().Names, nil
}

func (b localBackend) ExportPDB(ctx context.Context, smiles string) (*moltypes.PDBResponse, error) {
	resp := b.svc.ExportPDB(ctx, smiles)
	return &resp, nil
}

func (b localBackend) Measure(_ context.Context, req moltypes.MeasureRequest) (*moltypes.MeasureResponse, error) {
	resp := b.svc.Measure(req)
	return &resp, nil
}

// backendFor picks the remote client when --server is set.
func backendFor(cliCtx *CLIContext) (moleculeBackend, error) {
	if cliCtx.backend != nil {
		return cliCtx.backend, nil
	}
	if cliCtx.ServerAddr != "" {
		c, err := client.NewClient(cliCtx.ServerAddr,
			client.WithTimeout(cliCtx.Timeout),
			client.WithUserAgent("molx-cli/"+Version),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	svc := appmol.NewService(cliCtx.Config.Chem, cliCtx.Logger)
	return localBackend{svc: svc}, nil
}

//Personal.AI order the ending
