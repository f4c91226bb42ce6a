// Package tutorial holds the guided lessons. Each lesson is a list of
// steps whose checks read the compiled program, so a step passes no matter
// how the user arranged the gates on the grid.
package tutorial

import (
	"errors"
	"fmt"
	"slices"

	"qcompose/internal/circuit"
)

var (
	ErrStepIncomplete = errors.New("step not complete")
	ErrTooFewQubits   = errors.New("circuit has too few qubits for tutorial")
)

// Input is what a step is checked against.
type Input struct {
	Program circuit.Program
	Oracle  *circuit.OracleBlock

	// Message is the two-bit superdense message, q[0] first. Empty until
	// chosen.
	Message string
}

type Step struct {
	Title       string
	Instruction string
	Hint        string
	Check       func(Input) bool
}

type Tutorial struct {
	Name           string
	RequiredQubits int
	Steps          []Step
}

// Catalog returns the built-in tutorials in menu order.
func Catalog() []Tutorial {
	return []Tutorial{
		hadamard(),
		cnot(),
		qft(),
		superdense(),
		deutschJozsa(),
	}
}

// Find looks a tutorial up by name.
func Find(name string) (Tutorial, bool) {
	for _, t := range Catalog() {
		if t.Name == name {
			return t, true
		}
	}
	return Tutorial{}, false
}

// Session tracks progress through one tutorial.
type Session struct {
	Tutorial Tutorial

	index  int
	passed []bool
}

func NewSession(t Tutorial) *Session {
	return &Session{Tutorial: t, passed: make([]bool, len(t.Steps))}
}

func (s *Session) Current() Step { return s.Tutorial.Steps[s.index] }
func (s *Session) Index() int    { return s.index }

// Check verifies the current step and every step before it. An earlier
// step holds if it was passed when it was current or if the circuit
// satisfies it now, so steps that build on each other by replacing gates
// can still be completed in order. The returned error names the first
// step that fails.
func (s *Session) Check(in Input) error {
	if in.Program.NumQubits < s.Tutorial.RequiredQubits {
		return fmt.Errorf("%s needs %d qubits: %w", s.Tutorial.Name, s.Tutorial.RequiredQubits, ErrTooFewQubits)
	}
	for i := 0; i <= s.index; i++ {
		st := s.Tutorial.Steps[i]
		if i < s.index && s.passed[i] {
			continue
		}
		if !st.Check(in) {
			return fmt.Errorf("step %d %q: %w", i+1, st.Title, ErrStepIncomplete)
		}
	}
	for i := 0; i <= s.index; i++ {
		s.passed[i] = true
	}
	return nil
}

// Next moves to the following step. It returns false on the last step.
func (s *Session) Next() bool {
	if s.index >= len(s.Tutorial.Steps)-1 {
		return false
	}
	s.index++
	return true
}

func (s *Session) Reset() {
	s.index = 0
	clear(s.passed)
}

// Done reports whether the final step has been checked successfully.
func (s *Session) Done() bool {
	return len(s.passed) > 0 && s.passed[len(s.passed)-1]
}

// Passed reports whether step i has been checked successfully.
func (s *Session) Passed(i int) bool {
	return i >= 0 && i < len(s.passed) && s.passed[i]
}

// Progress is a short "step 2/5" label.
func (s *Session) Progress() string {
	return fmt.Sprintf("%s: step %d/%d", s.Tutorial.Name, s.index+1, len(s.Tutorial.Steps))
}

// ops helpers

func gateOps(in Input) []circuit.Op {
	var out []circuit.Op
	for _, op := range in.Program.Ops() {
		if op.Code != circuit.OpMeasure {
			out = append(out, op)
		}
	}
	return out
}

func isSingle(op circuit.Op, code circuit.Opcode, q int) bool {
	return op.Code == code && op.Target == q
}

// isCtrl matches any controlled op; control < 0 or target < 0 match any row.
func isCtrl(op circuit.Op, control, target int) bool {
	if !op.Code.IsControlled() {
		return false
	}
	if control >= 0 && !slices.Contains(op.Controls, control) {
		return false
	}
	return target < 0 || op.Target == target
}

func anyOp(ops []circuit.Op, code circuit.Opcode, q int) bool {
	return slices.ContainsFunc(ops, func(op circuit.Op) bool { return isSingle(op, code, q) })
}

func countOp(ops []circuit.Op, code circuit.Opcode, q int) int {
	n := 0
	for _, op := range ops {
		if isSingle(op, code, q) {
			n++
		}
	}
	return n
}

func measured(in Input, rows ...int) bool {
	got := in.Program.MeasuredRows()
	for _, r := range rows {
		if !slices.Contains(got, r) {
			return false
		}
	}
	return true
}

func hadamard() Tutorial {
	return Tutorial{
		Name:           "Hadamard Gate",
		RequiredQubits: 1,
		Steps: []Step{
			{
				Title:       "Ground state",
				Instruction: "Leave the circuit empty and look at the starting state.",
				Hint:        "Every qubit starts in |0>.",
				Check:       func(in Input) bool { return len(gateOps(in)) == 0 },
			},
			{
				Title:       "Superposition",
				Instruction: "Place one H on q[0].",
				Hint:        "H sends |0> to an equal superposition.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 1 && isSingle(ops[0], circuit.OpH, 0)
				},
			},
			{
				Title:       "H undoes itself",
				Instruction: "Place two H gates in a row on q[0].",
				Hint:        "H applied twice is the identity.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 2 && isSingle(ops[0], circuit.OpH, 0) && isSingle(ops[1], circuit.OpH, 0)
				},
			},
			{
				Title:       "Phase",
				Instruction: "Follow the H with a Z.",
				Hint:        "Same probabilities, different phase.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 2 && ops[0].Code == circuit.OpH && ops[1].Code == circuit.OpZ
				},
			},
			{
				Title:       "Not a classical bit",
				Instruction: "Measure a few times and compare with a coin flip. Nothing to place.",
				Hint:        "The state is only settled when measured.",
				Check:       func(Input) bool { return true },
			},
		},
	}
}

func cnot() Tutorial {
	return Tutorial{
		Name:           "CNOT Gate",
		RequiredQubits: 2,
		Steps: []Step{
			{
				Title:       "Prepare the control",
				Instruction: "Place an X on q[0].",
				Hint:        "The control qubit becomes |1>.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 1 && isSingle(ops[0], circuit.OpX, 0)
				},
			},
			{
				Title:       "Classical copy",
				Instruction: "Add a CNOT from q[0] to q[1].",
				Hint:        "Put a control on q[0] and a target on q[1] in one column.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 2 && isCtrl(ops[1], 0, 1)
				},
			},
			{
				Title:       "Bell state",
				Instruction: "Swap the X for an H.",
				Hint:        "H(q0) then CNOT(q0 to q1).",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 2 && ops[0].Code == circuit.OpH && isCtrl(ops[1], -1, -1)
				},
			},
			{
				Title:       "Order matters",
				Instruction: "Keep the H before the CNOT.",
				Hint:        "Gates do not commute in general.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) >= 2 && ops[0].Code == circuit.OpH && isCtrl(ops[1], -1, -1)
				},
			},
			{
				Title:       "CNOT is not symmetric",
				Instruction: "End with a CNOT from q[1] to q[0].",
				Hint:        "Entanglement has a direction.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) > 0 && isCtrl(ops[len(ops)-1], 1, 0)
				},
			},
		},
	}
}

func qft() Tutorial {
	return Tutorial{
		Name:           "Quantum Fourier Transform",
		RequiredQubits: 3,
		Steps: []Step{
			{
				Title:       "Start with H",
				Instruction: "Place an H on q[0].",
				Hint:        "The transform begins with a Hadamard on the top qubit.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) >= 1 && isSingle(ops[0], circuit.OpH, 0)
				},
			},
			{
				Title:       "Controlled phase",
				Instruction: "Add a controlled gate from q[0] to q[1].",
				Hint:        "Phase is stored in the relation between qubits.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) >= 2 && isCtrl(ops[1], 0, 1)
				},
			},
			{
				Title:       "Second H",
				Instruction: "Place an H on q[1].",
				Hint:        "Each qubit gets its own Hadamard.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) >= 3 && isSingle(ops[2], circuit.OpH, 1)
				},
			},
			{
				Title:       "Keep the order",
				Instruction: "H, controlled phase, H. Nothing else.",
				Hint:        "Reordering changes the transform.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) == 3 && ops[0].Code == circuit.OpH && isCtrl(ops[1], -1, -1) && ops[2].Code == circuit.OpH
				},
			},
			{
				Title:       "Look at the phases",
				Instruction: "Check the Bloch vectors of q[0] and q[1].",
				Hint:        "The information lives in the phase.",
				Check:       func(in Input) bool { return len(gateOps(in)) == 3 },
			},
			{
				Title:       "Measuring loses phase",
				Instruction: "Measure and note that the phase pattern is gone.",
				Hint:        "A computational basis measurement only sees amplitudes.",
				Check:       func(in Input) bool { return len(gateOps(in)) == 3 },
			},
		},
	}
}
