package reaction

import "fmt"

// MaxSpeciesCount bounds the stoichiometric count of one species. The NANO
// view lays out one molecule per unit of count.
const MaxSpeciesCount = 12

// Validate checks the ingestion invariants of a record. It is meant for load
// and save time, not for every frame.
func (r *Record) Validate() error {
	fail := func(err error) error { return &ValidationError{ID: r.ID, Wrapped: err} }

	if r.ID == "" {
		return fail(ErrMissingID)
	}
	if len(r.Reactants) == 0 {
		return fail(ErrNoReactants)
	}
	if len(r.Products) == 0 {
		return fail(ErrNoProducts)
	}
	for _, list := range [][]Species{r.Reactants, r.Products} {
		for _, s := range list {
			if s.Symbol == "" || s.Count < 1 || s.Count > MaxSpeciesCount {
				return fail(fmt.Errorf("%w: %q x%d", ErrBadSpecies, s.Symbol, s.Count))
			}
		}
	}
	if !(r.ActivationEnergy > 0 && r.ActivationEnergy <= 1) {
		return fail(fmt.Errorf("%w: %g", ErrActivationEnergy, r.ActivationEnergy))
	}
	return nil
}

// ValidateAll validates every record and rejects reused identifiers.
func ValidateAll(records []Record) error {
	seen := make(map[string]bool, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
		if seen[records[i].ID] {
			return &ValidationError{ID: records[i].ID, Wrapped: ErrDuplicateID}
		}
		seen[records[i].ID] = true
	}
	return nil
}
