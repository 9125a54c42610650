package chem

import "fmt"

// Atom is one atom of a molecule graph, with its 2D position.
type Atom struct {
	Element   int    // atomic number
	Charge    int    // formal charge
	Isotope   int    // mass number, 0 = natural abundance
	Radical   int    // unpaired electron count, 0 to 3
	Hydrogens int    // implicit hydrogen count
	Stereo    string // CIP descriptor R/S/r/s/U/u, empty = none
	Group     StereoGroup
	X, Y      float64 // layout position, y growing upwards
}

// StereoGroup places an atom in an enhanced stereochemistry group.
type StereoGroup struct {
	Type   string // "Absolute", "And" or "Or", empty = no group
	Number int
}

// Bond connects two atoms, given as indices into the molecule's atom
// slice.
type Bond struct {
	Begin, End int
	Order      string // "2", "1.5", "dative", "1 2", ..., empty = single
	Stereo     string // double bond stereo "E", "Z" or "U", empty = none
	Display    string // "WedgeBegin", "WedgedHashBegin", ..., empty = plain
}

// Molecule is a neutral molecule graph. The zero value is the empty
// molecule.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond
}

// Validate checks that all bond endpoints refer to atoms.
func (m *Molecule) Validate() error {
	for i, b := range m.Bonds {
		if b.Begin < 0 || b.Begin >= len(m.Atoms) || b.End < 0 || b.End >= len(m.Atoms) {
			return fmt.Errorf("bond %d connects missing atoms (%d-%d of %d)", i, b.Begin, b.End, len(m.Atoms))
		}
	}
	return nil
}

// Components partitions the atoms into connected components. Each
// component is a sorted list of atom indices. Atom order within the
// molecule determines component order.
func (m *Molecule) Components() [][]int {
	if len(m.Atoms) == 0 {
		return nil
	}
	parent := make([]int, len(m.Atoms))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, b := range m.Bonds {
		ri, rj := find(b.Begin), find(b.End)
		if ri != rj {
			parent[rj] = ri
		}
	}
	order := make(map[int]int)
	var comps [][]int
	for i := range m.Atoms {
		r := find(i)
		at, ok := order[r]
		if !ok {
			at = len(comps)
			order[r] = at
			comps = append(comps, nil)
		}
		comps[at] = append(comps[at], i)
	}
	return comps
}

var elementSymbols = []string{
	"", "H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

// Symbol returns the element symbol for an atomic number, or "?" when out
// of range.
func Symbol(atomicNum int) string {
	if atomicNum < 1 || atomicNum >= len(elementSymbols) {
		return "?"
	}
	return elementSymbols[atomicNum]
}
