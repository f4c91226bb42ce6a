package sim

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"qcompose/internal/circuit"
)

// StateVector holds 2^n amplitudes. Qubit q is bit q of the basis index.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Apply runs one unitary op. Measurements are ignored here; the sampler
// handles them.
func (s *StateVector) Apply(op circuit.Op) {
	switch op.Code {
	case circuit.OpH:
		s.applyH(op.Target)
	case circuit.OpX:
		s.applyX(op.Target)
	case circuit.OpY:
		s.applyY(op.Target)
	case circuit.OpZ:
		s.applyZ(op.Target)
	case circuit.OpRX:
		s.applyRX(op.Target, op.Angle)
	case circuit.OpRY:
		s.applyRY(op.Target, op.Angle)
	case circuit.OpRZ:
		s.applyRZ(op.Target, op.Angle)
	case circuit.OpCX, circuit.OpMCX:
		s.applyControlledX(mask(op.Controls), op.Target)
	case circuit.OpCZ, circuit.OpMCZ:
		s.applyControlledZ(mask(op.Controls) | 1<<op.Target)
	}
}

func mask(qubits []int) int {
	m := 0
	for _, q := range qubits {
		m |= 1 << q
	}
	return m
}

func (s *StateVector) applyH(q int) {
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = h * (a + b)
			s.Amplitudes[j] = h * (a - b)
		}
	}
}

func (s *StateVector) applyX(q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = -1i*s.Amplitudes[j], 1i*s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] = -s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a + js*b
			s.Amplitudes[j] = js*a + c*b
		}
	}
}

func (s *StateVector) applyRY(q int, theta float64) {
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a - sn*b
			s.Amplitudes[j] = sn*a + c*b
		}
	}
}

func (s *StateVector) applyRZ(q int, theta float64) {
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

// applyControlledX flips target on every basis state where all control
// bits are set. An empty control mask is a plain X.
func (s *StateVector) applyControlledX(controls, target int) {
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&controls == controls && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// applyControlledZ negates every basis state with all bits of m set.
func (s *StateVector) applyControlledZ(m int) {
	for i := range s.Amplitudes {
		if i&m == m {
			s.Amplitudes[i] = -s.Amplitudes[i]
		}
	}
}

// Probabilities returns |amplitude|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	p := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		p[i] = real(a * cmplx.Conj(a))
	}
	return p
}

// ProbabilityOne is the chance of reading 1 on qubit q.
func (s *StateVector) ProbabilityOne(q int) float64 {
	bit := 1 << q
	var p float64
	for i, a := range s.Amplitudes {
		if i&bit != 0 {
			p += real(a * cmplx.Conj(a))
		}
	}
	return p
}

// Collapse projects qubit q onto outcome and renormalizes.
func (s *StateVector) Collapse(q, outcome int) {
	bit := 1 << q
	for i := range s.Amplitudes {
		if (i&bit != 0) != (outcome == 1) {
			s.Amplitudes[i] = 0
		}
	}
	norm := math.Sqrt(floats.Sum(s.Probabilities()))
	if norm == 0 {
		return
	}
	for i := range s.Amplitudes {
		s.Amplitudes[i] /= complex(norm, 0)
	}
}

// BlochVector returns the Bloch vector of qubit q, taken from its reduced
// density matrix. A pure single-qubit state has length 1; entanglement
// shortens it.
func (s *StateVector) BlochVector(q int) r3.Vec {
	bit := 1 << q
	var rho00, rho11 float64
	var rho01 complex128
	for i, a := range s.Amplitudes {
		if i&bit != 0 {
			rho11 += real(a * cmplx.Conj(a))
			continue
		}
		rho00 += real(a * cmplx.Conj(a))
		rho01 += a * cmplx.Conj(s.Amplitudes[i|bit])
	}
	return r3.Vec{
		X: 2 * real(rho01),
		Y: -2 * imag(rho01),
		Z: rho00 - rho11,
	}
}

// Purity is the length of the Bloch vector of qubit q.
func (s *StateVector) Purity(q int) float64 {
	return r3.Norm(s.BlochVector(q))
}
