// Package console plays a single board in a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrAborted = errors.New("game aborted")

var errBadInput = errors.New("expected \"row col\" or \"#index\"")

// parseMove reads either "row col" or "#index".
func parseMove(p mines.GameParams, line string) (int, error) {
	if rest, ok := strings.CutPrefix(line, "#"); ok {
		index, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return 0, errBadInput
		}
		return index, nil
	}

	parts := strings.Fields(line)
	if len(parts) != 2 {
		return 0, errBadInput
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errBadInput
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errBadInput
	}
	if !p.ValidatePosition(row, col) {
		return 0, fmt.Errorf("%w: %d:%d is off the board", mines.ErrInvalidIndex, row, col)
	}
	return p.Index(row, col), nil
}

// Play reads moves from in until the game ends. Bad lines are reported to
// out and skipped. Running out of input before the end returns ErrAborted.
func Play(ctx context.Context, board *mines.Board, in io.Reader, out io.Writer) (mines.Outcome, error) {
	p := board.Params()
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "%s, %d cells to clear\n", p, p.Size()-p.MineCount)
	fmt.Fprint(out, board)

	for !board.Outcome().Terminal() {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return board.Outcome(), err
			}
			return board.Outcome(), ErrAborted
		}
		if err := ctx.Err(); err != nil {
			return board.Outcome(), err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		index, err := parseMove(p, line)
		if err != nil {
			fmt.Fprintf(out, "invalid move: %s\n", err)
			continue
		}
		res, err := board.Reveal(index)
		if err != nil {
			fmt.Fprintf(out, "invalid move: %s\n", err)
			continue
		}
		fmt.Fprint(out, board)
		if !res.Outcome.Terminal() {
			fmt.Fprintf(out, "%d cells to clear\n", board.Remaining()-p.MineCount)
		}
	}

	outcome := board.Outcome()
	fmt.Fprintf(out, "%s in %.1fs\n", outcome, board.Elapsed().Seconds())
	return outcome, nil
}
