package mines

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layout is a fixed mine placement, either as a list of indexes or as a
// picture of the board with '*' for mines and '.' for safe cells:
//
//	board: |
//	  ...
//	  .*.
//	  ...
type Layout struct {
	Rows  int    `yaml:"rows"`
	Cols  int    `yaml:"cols"`
	Mines []int  `yaml:"mines,flow"`
	Board string `yaml:"board,omitempty"`
}

func LoadLayout(r io.Reader) (*Layout, error) {
	var layout Layout
	if err := yaml.NewDecoder(r).Decode(&layout); err != nil {
		return nil, fmt.Errorf("unable to decode layout: %w", err)
	}
	if layout.Board == "" {
		return &layout, nil
	}
	if len(layout.Mines) != 0 {
		return nil, errors.New("layout must set either mines or board, not both")
	}
	parsed, err := ParseLayoutGrid(layout.Board)
	if err != nil {
		return nil, err
	}
	if (layout.Rows != 0 && layout.Rows != parsed.Rows) ||
		(layout.Cols != 0 && layout.Cols != parsed.Cols) {
		return nil, fmt.Errorf(
			"layout declares %dx%d but board is %dx%d",
			layout.Rows, layout.Cols, parsed.Rows, parsed.Cols,
		)
	}
	return parsed, nil
}

func ParseLayoutGrid(s string) (*Layout, error) {
	rows := strings.Split(strings.TrimSpace(s), "\n")
	layout := &Layout{Rows: len(rows), Board: s}
	for y, row := range rows {
		row = strings.TrimSpace(row)
		if y == 0 {
			layout.Cols = len(row)
		} else if len(row) != layout.Cols {
			return nil, fmt.Errorf(
				"row %d has %d cells, expected %d", y, len(row), layout.Cols,
			)
		}
		for x, c := range row {
			switch c {
			case '*':
				layout.Mines = append(layout.Mines, y*layout.Cols+x)
			case '.':
			default:
				return nil, fmt.Errorf("unexpected %q at %d:%d", c, y, x)
			}
		}
	}
	return layout, nil
}

func (l *Layout) Params() GameParams {
	return GameParams{Rows: l.Rows, Cols: l.Cols, MineCount: len(l.Mines)}
}

func (l *Layout) NewBoard(opts ...Option) (*Board, error) {
	return NewBoard(l.Params(), l.Mines, opts...)
}
