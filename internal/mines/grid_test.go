package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerGrid(t *testing.T) {
	b, err := NewBoard(GameParams{Rows: 3, Cols: 3, MineCount: 2}, []int{4, 8})
	require.NoError(t, err)

	assert.Equal(t, "# # #\n# # #\n# # #\n", b.String())

	_, err = b.Reveal(0)
	require.NoError(t, err)
	assert.Equal(t, ". 1 #\n1 # #\n# # #\n", b.String())

	_, err = b.Reveal(8)
	require.NoError(t, err)
	assert.Equal(t, Grid{
		0, 1, Hidden,
		1, Mine, Hidden,
		Hidden, Hidden, ExplodedMine,
	}, b.PlayerGrid())
	assert.Equal(t, ". 1 #\n1 * #\n# # X\n", b.String())
}

func TestGridFormat(t *testing.T) {
	g := Grid{Hidden, 0, 1, Mine}
	assert.Equal(t, "# .\n1 *\n", g.Format(2))
	assert.Equal(t, "# . 1 *\n", g.Format(4))
	assert.Equal(t, "", g.Format(0))
	assert.Equal(t, "", g.Format(-3))
	assert.Equal(t, "", Grid{}.Format(3))
}

func TestCellStateString(t *testing.T) {
	tests := []struct {
		state CellState
		want  string
	}{
		{Hidden, "#"},
		{0, "."},
		{1, "1"},
		{4, "4"},
		{Mine, "*"},
		{ExplodedMine, "X"},
		{9, "!"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.state.String())
	}
}
