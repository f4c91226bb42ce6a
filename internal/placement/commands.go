package placement

import (
	"qcompose/internal/circuit"
)

// Delete removes the gate in cell.
func (e *Engine) Delete(cell circuit.Cell) error {
	g, err := e.circ.Delete(cell)
	if err != nil {
		return err
	}
	e.log.Debug().Str("gate", g.Kind.String()).Msg("gate deleted")
	e.redraw()
	return nil
}

// SetAngle sets the rotation angle of the gate in cell.
func (e *Engine) SetAngle(cell circuit.Cell, radians float64) error {
	if err := e.circ.SetAngle(cell, radians); err != nil {
		return err
	}
	e.redraw()
	return nil
}

// Clear empties the grid. The oracle is kept unless removeOracle.
func (e *Engine) Clear(removeOracle bool) {
	e.circ.Clear(removeOracle)
	e.log.Debug().Bool("oracle_removed", removeOracle).Msg("circuit cleared")
	e.redraw()
}

// AddQubit grows the circuit by one wire.
func (e *Engine) AddQubit() error {
	if err := e.circ.AddQubit(); err != nil {
		e.log.Info().Err(err).Msg("qubit not added")
		return err
	}
	e.redraw()
	return nil
}

// RemoveQubit drops the last wire and the gates on it.
func (e *Engine) RemoveQubit() error {
	evicted, err := e.circ.RemoveQubit()
	if err != nil {
		e.log.Info().Err(err).Msg("qubit not removed")
		return err
	}
	e.log.Debug().Int("qubits", e.circ.Qubits()).Int("evicted", len(evicted)).Msg("qubit removed")
	e.redraw()
	return nil
}

// SetQubits resizes the circuit, as tutorials require.
func (e *Engine) SetQubits(n int) error {
	err := e.circ.SetQubits(n)
	e.redraw()
	return err
}

// InsertOracle puts the oracle block in the middle column.
func (e *Engine) InsertOracle() error {
	evicted, err := e.circ.InsertOracle(circuit.OracleColumn(e.layout.MaxColumns))
	if err != nil {
		return err
	}
	if len(evicted) > 0 {
		e.log.Debug().Int("evicted", len(evicted)).Msg("oracle column cleared")
	}
	e.redraw()
	return nil
}

func (e *Engine) RemoveOracle() {
	e.circ.RemoveOracle()
	e.redraw()
}

// Compile snapshots the circuit as a program. It must not be called from
// inside a drop.
func (e *Engine) Compile() circuit.Program {
	return circuit.Compile(e.circ)
}
