package molecule

import (
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

// OutcomeKind tags the three ways a structure request can end.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeInvalidInput
	OutcomeComputationFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeComputationFailure:
		return "computation_failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one structure request. Payload is set
// only for OutcomeSuccess and Reason only for the two failure kinds.
type Outcome struct {
	Kind    OutcomeKind
	Payload *moltypes.MoleculePayload
	Reason  string
}

// Succeeded wraps a computed payload.
func Succeeded(p *moltypes.MoleculePayload) Outcome {
	return Outcome{Kind: OutcomeSuccess, Payload: p}
}

// InvalidInput reports input the engine rejected.
func InvalidInput(reason string) Outcome {
	return Outcome{Kind: OutcomeInvalidInput, Reason: reason}
}

// ComputationFailure reports a stage that failed after the input parsed.
func ComputationFailure(reason string) Outcome {
	return Outcome{Kind: OutcomeComputationFailure, Reason: reason}
}

// OK reports whether the outcome carries a payload.
func (o Outcome) OK() bool { return o.Kind == OutcomeSuccess }

// ErrorKind maps the outcome to its wire category; empty on success.
func (o Outcome) ErrorKind() moltypes.ErrorKind {
	switch o.Kind {
	case OutcomeInvalidInput:
		return moltypes.ErrorKindInvalidInput
	case OutcomeComputationFailure:
		return moltypes.ErrorKindComputationFailure
	default:
		return ""
	}
}

// Response converts the outcome to the POST /molecule body.
func (o Outcome) Response() moltypes.MoleculeResponse {
	if o.OK() {
		return moltypes.MoleculeResponse{
			Success:         true,
			MoleculePayload: o.Payload,
		}
	}
	return moltypes.MoleculeResponse{
		Success:   false,
		Message:   o.Reason,
		ErrorKind: o.ErrorKind(),
	}
}

//Personal.AI order the ending
