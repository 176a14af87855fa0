package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Hidden       CellState = -2
	Mine         CellState = 64
	ExplodedMine CellState = 65
	/*
	 * Each item of a player grid is one of the following values:
	 *
	 *  - 0 to 4 mean the cell is open and has that many mines among its
	 *    orthogonal neighbours.
	 *
	 *  - -2 means the cell is still hidden.
	 *
	 *  - 64 means the cell holds a mine, shown once the game is over.
	 *
	 *  - 65 means the cell holds the mine that ended the game.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Hidden:
		return "#"
	case s == Mine:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == 0:
		return "."
	case 0 < s && s <= 4:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

type Grid []CellState

// Format renders the grid one row per line. It is empty unless cols is
// positive.
func (g Grid) Format(cols int) string {
	if cols <= 0 {
		return ""
	}
	var b strings.Builder
	for y := range len(g) / cols {
		for x := range cols {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*cols+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// PlayerGrid is the board as a player sees it. Mines appear only after the
// game is over.
func (b *Board) PlayerGrid() Grid {
	grid := make(Grid, len(b.cells))
	over := b.outcome.Terminal()
	for i, c := range b.cells {
		switch {
		case c.revealed:
			grid[i] = CellState(c.adjacent)
		case over && i == b.exploded:
			grid[i] = ExplodedMine
		case over && c.mine:
			grid[i] = Mine
		default:
			grid[i] = Hidden
		}
	}
	return grid
}

func (b *Board) String() string {
	return b.PlayerGrid().Format(b.Cols)
}
