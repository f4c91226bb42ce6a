package circuit

import "fmt"

// Kind is the closed set of gate kinds that can sit on the grid.
type Kind int

const (
	Hadamard Kind = iota
	PauliX
	PauliY
	PauliZ
	RotateX
	RotateY
	RotateZ
	Control
	TargetX
	TargetZ
	Measure
	Oracle
)

var kindNames = [...]string{
	Hadamard: "H",
	PauliX:   "X",
	PauliY:   "Y",
	PauliZ:   "Z",
	RotateX:  "RX",
	RotateY:  "RY",
	RotateZ:  "RZ",
	Control:  "CTRL",
	TargetX:  "TARGET_X",
	TargetZ:  "TARGET_Z",
	Measure:  "MEASURE",
	Oracle:   "ORACLE",
}

var kindSymbols = [...]string{
	Hadamard: "H",
	PauliX:   "X",
	PauliY:   "Y",
	PauliZ:   "Z",
	RotateX:  "Rx",
	RotateY:  "Ry",
	RotateZ:  "Rz",
	Control:  "●",
	TargetX:  "⊕",
	TargetZ:  "Ⓩ",
	Measure:  "M",
	Oracle:   "Uf",
}

var kindLabels = [...]string{
	Hadamard: "Hadamard",
	PauliX:   "Pauli-X",
	PauliY:   "Pauli-Y",
	PauliZ:   "Pauli-Z",
	RotateX:  "Rotate X",
	RotateY:  "Rotate Y",
	RotateZ:  "Rotate Z",
	Control:  "Control",
	TargetX:  "Target X",
	TargetZ:  "Target Z",
	Measure:  "Measure",
	Oracle:   "Oracle",
}

func (k Kind) valid() bool { return k >= Hadamard && k <= Oracle }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Symbol is the short glyph drawn on the grid.
func (k Kind) Symbol() string {
	if !k.valid() {
		return "?"
	}
	return kindSymbols[k]
}

// Label is the human-readable name shown in the palette.
func (k Kind) Label() string {
	if !k.valid() {
		return k.String()
	}
	return kindLabels[k]
}

func (k Kind) IsTarget() bool { return k == TargetX || k == TargetZ }

func (k Kind) IsRotation() bool { return k == RotateX || k == RotateY || k == RotateZ }

// IsSingleQubit reports whether k compiles to one operation on its own row.
func (k Kind) IsSingleQubit() bool { return k >= Hadamard && k <= RotateZ }

// Kinds returns the kinds a user can drag from the palette, in palette order.
// Oracle is placed by the application, never by hand.
func Kinds() []Kind {
	return []Kind{
		Control, TargetX, TargetZ,
		Hadamard, PauliX, PauliY, PauliZ,
		RotateX, RotateY, RotateZ,
		Measure,
	}
}
