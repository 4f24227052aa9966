package reaction

import (
	"errors"
	"fmt"
)

// Domain errors for reaction records.
var (
	// ErrMissingID indicates a record without an identifier.
	ErrMissingID = errors.New("reaction: missing id")

	// ErrDuplicateID indicates two records sharing one identifier.
	ErrDuplicateID = errors.New("reaction: duplicate id")

	// ErrNoReactants indicates an empty reactant list.
	ErrNoReactants = errors.New("reaction: no reactants")

	// ErrNoProducts indicates an empty product list.
	ErrNoProducts = errors.New("reaction: no products")

	// ErrBadSpecies indicates a species without symbol or with a count
	// outside [1, MaxSpeciesCount].
	ErrBadSpecies = errors.New("reaction: invalid species")

	// ErrActivationEnergy indicates an activation energy outside (0, 1].
	ErrActivationEnergy = errors.New("reaction: activation energy outside (0, 1]")

	// ErrUnknownView indicates an unrecognised view level name.
	ErrUnknownView = errors.New("reaction: unknown view level")

	// ErrFormula indicates a species symbol that is not a chemical formula.
	ErrFormula = errors.New("reaction: malformed formula")
)

// ValidationError wraps a validation failure with the offending record.
type ValidationError struct {
	ID      string
	Wrapped error
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return e.Wrapped.Error()
	}
	return fmt.Sprintf("record %s: %v", e.ID, e.Wrapped)
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}
