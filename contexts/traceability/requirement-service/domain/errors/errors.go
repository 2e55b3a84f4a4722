package errors

import "errors"

var (
	ErrRequirementNotFound    = errors.New("requirement not found")
	ErrRequirementIDTaken     = errors.New("requirement id already exists")
	ErrInvalidArtifactKind    = errors.New("invalid artifact kind")
	ErrInvalidRequirementData = errors.New("invalid requirement data")
	ErrNoFlagsSupplied        = errors.New("no flags supplied")
)
