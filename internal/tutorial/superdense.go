package tutorial

import (
	"errors"
	"fmt"
	"slices"

	"qcompose/internal/circuit"
	"qcompose/internal/sim"
)

var ErrBadMessage = errors.New("message must be one of 00, 01, 10, 11")

// Messages are the two-bit messages superdense coding can send, q[0] first.
var Messages = []string{"00", "01", "10", "11"}

// DecodeThreshold is the share of shots that must decode to the chosen
// message for the run to count as a success.
const DecodeThreshold = 0.8

// EncodeMessage returns the ops the sender applies to q[0] for msg.
func EncodeMessage(msg string) ([]circuit.Op, error) {
	switch msg {
	case "00":
		return nil, nil
	case "01":
		return []circuit.Op{{Code: circuit.OpX, Target: 0}}, nil
	case "10":
		return []circuit.Op{{Code: circuit.OpZ, Target: 0}}, nil
	case "11":
		return []circuit.Op{{Code: circuit.OpX, Target: 0}, {Code: circuit.OpZ, Target: 0}}, nil
	}
	return nil, fmt.Errorf("%q: %w", msg, ErrBadMessage)
}

// Encodes reports whether the single-qubit gates on q[0] amount to the
// Pauli that encodes msg. Y counts as X and Z together; global phase is
// ignored.
func Encodes(p circuit.Program, msg string) bool {
	if !slices.Contains(Messages, msg) {
		return false
	}
	var x, z int
	for _, op := range p.Ops() {
		if op.Target != 0 || op.Code.IsControlled() {
			continue
		}
		switch op.Code {
		case circuit.OpX:
			x ^= 1
		case circuit.OpZ:
			z ^= 1
		case circuit.OpY:
			x ^= 1
			z ^= 1
		}
	}
	return x == int(msg[1]-'0') && z == int(msg[0]-'0')
}

// Decode reads the received message from a run that measured q[0] and
// q[1]. It returns the most frequent message, q[0] first, and its share
// of the shots.
func Decode(r sim.Result) (string, float64) {
	m := r.Marginal([]int{0, 1})
	sorted := m.Sorted()
	if len(sorted) == 0 {
		return "", 0
	}
	top := sorted[0]
	// Result keys are c[1]c[0]; messages are written q[0] first.
	msg := string([]byte{top.Bits[1], top.Bits[0]})
	return msg, m.Probability(top.Bits)
}

// Delivered reports whether r decodes to msg often enough.
func Delivered(r sim.Result, msg string) bool {
	got, p := Decode(r)
	return got == msg && p >= DecodeThreshold
}

func superdense() Tutorial {
	return Tutorial{
		Name:           "Superdense Coding",
		RequiredQubits: 2,
		Steps: []Step{
			{
				Title:       "Share a Bell pair",
				Instruction: "Place H on q[0], then a CNOT from q[0] to q[1].",
				Hint:        "The pair must be entangled before anything is sent.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) >= 2 && isSingle(ops[0], circuit.OpH, 0) && isCtrl(ops[1], 0, 1)
				},
			},
			{
				Title:       "Choose a message",
				Instruction: "Pick the two bits to send.",
				Hint:        "00, 01, 10 or 11.",
				Check:       func(in Input) bool { return slices.Contains(Messages, in.Message) },
			},
			{
				Title:       "Encode on q[0]",
				Instruction: "Apply X and/or Z to q[0] to encode the message.",
				Hint:        "01 is X, 10 is Z, 11 is X then Z.",
				Check:       func(in Input) bool { return Encodes(in.Program, in.Message) },
			},
			{
				Title:       "Bob's CNOT",
				Instruction: "Add a CNOT from q[0] to q[1] after the encoding.",
				Hint:        "Bob starts undoing the Bell pair.",
				Check: func(in Input) bool {
					n := 0
					for _, op := range gateOps(in) {
						if isCtrl(op, 0, 1) {
							n++
						}
					}
					return n >= 2
				},
			},
			{
				Title:       "Decode with H",
				Instruction: "Finish with H on q[0] and measure both qubits.",
				Hint:        "Both bits come back.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return len(ops) > 0 && isSingle(ops[len(ops)-1], circuit.OpH, 0) && measured(in, 0, 1)
				},
			},
		},
	}
}
