package reaction

import (
	"fmt"
	"unicode"
)

// Atom is one atom of an expanded formula.
type Atom struct {
	Element string
}

// MaxFormulaAtoms bounds the expanded size of one formula.
const MaxFormulaAtoms = 64

// ParseFormula expands a formula such as "CuCO3" or "Ca(OH)2" into its atoms
// in written order. State suffixes like "(aq)" are not supported.
func ParseFormula(formula string) ([]Atom, error) {
	p := formulaParser{src: []rune(formula)}
	atoms, err := p.group()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrFormula, p.src[p.pos], formula)
	}
	if len(atoms) == 0 {
		return nil, fmt.Errorf("%w: %q has no elements", ErrFormula, formula)
	}
	return atoms, nil
}

type formulaParser struct {
	src []rune
	pos int
}

func (p *formulaParser) group() ([]Atom, error) {
	var atoms []Atom
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch {
		case unicode.IsUpper(r):
			start := p.pos
			p.pos++
			for p.pos < len(p.src) && unicode.IsLower(p.src[p.pos]) {
				p.pos++
			}
			el := string(p.src[start:p.pos])
			n := p.count()
			if len(atoms)+n > MaxFormulaAtoms {
				return nil, p.tooLarge()
			}
			for ; n > 0; n-- {
				atoms = append(atoms, Atom{Element: el})
			}
		case r == '(':
			p.pos++
			inner, err := p.group()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ')' {
				return nil, fmt.Errorf("%w: unclosed group in %q", ErrFormula, string(p.src))
			}
			p.pos++
			n := p.count()
			if len(atoms)+n*len(inner) > MaxFormulaAtoms {
				return nil, p.tooLarge()
			}
			for ; n > 0; n-- {
				atoms = append(atoms, inner...)
			}
		case r == ')':
			return atoms, nil
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrFormula, r, string(p.src))
		}
	}
	return atoms, nil
}

func (p *formulaParser) tooLarge() error {
	return fmt.Errorf("%w: %q expands to more than %d atoms", ErrFormula, string(p.src), MaxFormulaAtoms)
}

// count reads an optional multiplier, defaulting to 1. Values above
// MaxFormulaAtoms saturate.
func (p *formulaParser) count() int {
	n := 0
	digits := false
	for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
		if n <= MaxFormulaAtoms {
			n = n*10 + int(p.src[p.pos]-'0')
		}
		p.pos++
		digits = true
	}
	if !digits {
		return 1
	}
	return n
}
