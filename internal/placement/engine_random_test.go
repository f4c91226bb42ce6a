package placement

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"qcompose/internal/circuit"
)

// snapshot copies the registry contents.
func snapshot(e *Engine) map[circuit.Cell]*circuit.Gate {
	out := map[circuit.Cell]*circuit.Gate{}
	e.Circuit().Registry().Each(func(c circuit.Cell, g *circuit.Gate) { out[c] = g })
	return out
}

// checkRegistry asserts the registry rules that must hold between drops.
func checkRegistry(t *testing.T, e *Engine, step string) {
	t.Helper()
	reg := e.Circuit().Registry()
	geo := e.Geometry()
	seen := map[*circuit.Gate]bool{}
	targets := map[int]int{}
	measures := map[int]int{}

	reg.Each(func(c circuit.Cell, g *circuit.Gate) {
		pos, ok := g.Position()
		require.True(t, ok, "%s: gate in %v has no position", step, c)
		require.Equal(t, c, pos, "%s: gate position disagrees with its cell", step)
		require.False(t, seen[g], "%s: gate %v registered twice", step, g)
		seen[g] = true
		require.False(t, geo.OutOfBounds(c), "%s: gate outside the grid at %v", step, c)
		require.False(t, reg.IsReserved(c.Col), "%s: gate in reserved column %d", step, c.Col)
		if g.Kind.IsTarget() {
			targets[c.Col]++
		}
		if g.Kind == circuit.Measure {
			measures[c.Row]++
		}
	})
	for col, n := range targets {
		require.LessOrEqual(t, n, 1, "%s: %d targets in column %d", step, n, col)
	}
	for row, n := range measures {
		require.LessOrEqual(t, n, 1, "%s: %d measures in row %d", step, n, row)
	}
}

// randomPoint picks a pointer position: usually a cell center, sometimes
// anywhere on or around the canvas (trash, palette strip, off grid).
func randomPoint(rng *rand.Rand, e *Engine) (float64, float64) {
	geo := e.Geometry()
	if rng.IntN(10) < 7 {
		c := circuit.Cell{Row: rng.IntN(geo.Qubits+2) - 1, Col: rng.IntN(geo.MaxColumns+2) - 1}
		o := geo.CellOrigin(c)
		return o.X, o.Y
	}
	return rng.Float64() * (geo.RightEdge() + 60), rng.Float64() * (geo.Bottom() + 60)
}

func randomKind(rng *rand.Rand) circuit.Kind {
	kinds := circuit.Kinds()
	return kinds[rng.IntN(len(kinds))]
}

func TestRandomDropsKeepRegistryRules(t *testing.T) {
	const trials, drops = 300, 200

	for trial := range trials {
		rng := rand.New(rand.NewPCG(42, uint64(trial)))
		f := newFixture(t, 1+rng.IntN(8))
		e := f.e

		for i := range drops {
			step := fmt.Sprintf("trial %d drop %d", trial, i)
			reg := e.Circuit().Registry()

			switch r := rng.IntN(100); {
			case r < 4:
				_ = e.AddQubit()
			case r < 8:
				_ = e.RemoveQubit()
			case r < 10:
				_ = e.InsertOracle()
			case r < 11:
				e.RemoveOracle()

			case r < 55:
				before, redraws := snapshot(e), f.redraws
				s := e.BeginFromPalette(circuit.NewGate(randomKind(rng)), 0, 0)
				s.MoveTo(randomPoint(rng, e))
				out := e.Drop(s)

				switch out.Action {
				case Placed:
					require.Same(t, out.Gate, reg.OccupantAt(*out.To), step)
					require.Equal(t, len(before)+1, reg.Len(), step)
				case Discarded, Trashed, PaletteReturn:
					require.Equal(t, before, snapshot(e), "%s: %s changed the registry", step, out.Action)
					require.Equal(t, redraws, f.redraws, "%s: %s redrew", step, out.Action)
					require.False(t, out.Gate.IsPlaced(), step)
				default:
					t.Fatalf("%s: fresh gate ended as %s", step, out.Action)
				}

			default:
				cells := reg.Cells()
				if len(cells) == 0 {
					continue
				}
				from := cells[rng.IntN(len(cells))]
				g := reg.OccupantAt(from)
				before, redraws := snapshot(e), f.redraws
				o := e.Geometry().CellOrigin(from)
				s := e.Pick(from, o.X, o.Y)
				require.NotNil(t, s, step)
				s.MoveTo(randomPoint(rng, e))
				var occ *circuit.Gate
				if to := e.Geometry().CellAt(s.Center().X, s.Center().Y); !e.Geometry().OutOfBounds(to) {
					occ = reg.OccupantAt(to)
				}
				out := e.Drop(s)

				switch out.Action {
				case Placed:
					require.Same(t, g, reg.OccupantAt(*out.To), step)
					if *out.To != from {
						require.Nil(t, reg.OccupantAt(from), step)
					}
					require.Equal(t, len(before), reg.Len(), step)
				case Swapped:
					require.Same(t, occ, out.Swapped, step)
					require.Same(t, g, reg.OccupantAt(*out.To), "%s: moved gate not at target", step)
					require.Same(t, occ, reg.OccupantAt(from), "%s: displaced gate not at origin", step)
					require.Equal(t, len(before), reg.Len(), step)
				case Reverted:
					require.Equal(t, before, snapshot(e), "%s: revert changed the registry", step)
					require.Equal(t, redraws, f.redraws, "%s: revert redrew", step)
					pos, ok := g.Position()
					require.True(t, ok, step)
					require.Equal(t, from, pos, step)
				case Trashed, PaletteReturn:
					require.Nil(t, reg.OccupantAt(from), step)
					require.False(t, g.IsPlaced(), step)
					require.Equal(t, len(before)-1, reg.Len(), step)
				default:
					t.Fatalf("%s: placed gate ended as %s", step, out.Action)
				}
			}
			checkRegistry(t, e, step)
		}
	}
}
