// Package circuit holds the circuit model: gate kinds and instances, the
// cell registry with its placement rules, the qubit-count lifecycle and
// the compiler that turns a registry into an operation sequence.
package circuit

import (
	"errors"
	"fmt"
)

const (
	MinQubits     = 1
	DefaultQubits = 3
	// OracleRows is the span of the two-input Deutsch-Jozsa oracle.
	OracleRows = 3
)

var (
	ErrMaxQubits   = errors.New("maximum number of qubits reached")
	ErrMinQubits   = errors.New("a circuit needs at least one qubit")
	ErrEmptyCell   = errors.New("no gate in cell")
	ErrNotRotation = errors.New("gate has no angle")
)

// Circuit is a registry bound to a qubit count, plus the optional oracle.
type Circuit struct {
	reg       *Registry
	qubits    int
	maxQubits int
	oracle    *OracleBlock
}

// New returns an empty circuit. qubits is clamped into [1, maxQubits].
func New(qubits, maxQubits int) *Circuit {
	if maxQubits < MinQubits {
		maxQubits = MinQubits
	}
	return &Circuit{
		reg:       NewRegistry(),
		qubits:    min(max(qubits, MinQubits), maxQubits),
		maxQubits: maxQubits,
	}
}

func (c *Circuit) Registry() *Registry { return c.reg }
func (c *Circuit) Qubits() int         { return c.qubits }
func (c *Circuit) MaxQubits() int      { return c.maxQubits }

// AddQubit appends a wire below the last one.
func (c *Circuit) AddQubit() error {
	if c.qubits >= c.maxQubits {
		return fmt.Errorf("%d qubits: %w", c.maxQubits, ErrMaxQubits)
	}
	c.qubits++
	c.reg.EvictOutOfRange(c.qubits)
	return nil
}

// RemoveQubit drops the last wire together with every gate on it. The
// oracle goes too when it no longer fits.
func (c *Circuit) RemoveQubit() ([]*Gate, error) {
	if c.qubits <= MinQubits {
		return nil, ErrMinQubits
	}
	c.qubits--
	evicted := c.reg.EvictOutOfRange(c.qubits)
	if c.oracle != nil && c.oracle.Rows > c.qubits {
		c.RemoveOracle()
	}
	return evicted, nil
}

// SetQubits grows or shrinks the circuit one wire at a time.
func (c *Circuit) SetQubits(n int) error {
	for c.qubits < n {
		if err := c.AddQubit(); err != nil {
			return err
		}
	}
	for c.qubits > n {
		if _, err := c.RemoveQubit(); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the gate in cell.
func (c *Circuit) Delete(cell Cell) (*Gate, error) {
	g := c.reg.OccupantAt(cell)
	if g == nil {
		return nil, fmt.Errorf("%s: %w", cellString(cell), ErrEmptyCell)
	}
	c.reg.Remove(cell)
	return g, nil
}

// SetAngle sets the rotation angle of the gate in cell.
func (c *Circuit) SetAngle(cell Cell, radians float64) error {
	g := c.reg.OccupantAt(cell)
	if g == nil {
		return fmt.Errorf("%s: %w", cellString(cell), ErrEmptyCell)
	}
	if !g.Kind.IsRotation() {
		return fmt.Errorf("%v: %w", g.Kind, ErrNotRotation)
	}
	g.SetAngle(radians)
	return nil
}

// Clear empties the registry. The oracle survives unless removeOracle.
func (c *Circuit) Clear(removeOracle bool) {
	c.reg.Clear()
	if removeOracle {
		c.RemoveOracle()
	}
}

func (c *Circuit) Oracle() *OracleBlock { return c.oracle }

// InsertOracle reserves col for a three-row oracle. Gates already in the
// column are evicted and returned. Inserting twice is a no-op.
func (c *Circuit) InsertOracle(col int) ([]*Gate, error) {
	if c.oracle != nil {
		return nil, nil
	}
	if c.qubits < OracleRows {
		return nil, fmt.Errorf("oracle spans %d qubits, circuit has %d: %w", OracleRows, c.qubits, ErrOracleNeedsQubits)
	}
	evicted := c.reg.EvictColumn(col)
	c.reg.Reserve(col)
	c.oracle = &OracleBlock{Gate: NewGate(Oracle), Col: col, Rows: OracleRows}
	c.oracle.Gate.setPosition(Cell{Row: 0, Col: col})
	return evicted, nil
}

// RemoveOracle frees the oracle column. It is a no-op without an oracle.
func (c *Circuit) RemoveOracle() {
	if c.oracle == nil {
		return
	}
	c.reg.Unreserve(c.oracle.Col)
	c.oracle.Gate.clearPosition()
	c.oracle = nil
}

// SetOracleTable defines the oracle function.
func (c *Circuit) SetOracleTable(t TruthTable) error {
	if c.oracle == nil {
		return ErrNoOracle
	}
	c.oracle.Table = t
	return nil
}

// OracleColumn is the column the oracle is placed in: the middle of the grid.
func OracleColumn(maxColumns int) int { return maxColumns / 2 }
