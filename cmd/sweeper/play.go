package main

import (
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/console"
	"github.com/vancomm/sweeper/internal/mines"
)

var (
	playParams mines.GameParams
	layoutPath string
	seed       uint64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Play a game in the terminal. Each line is a move, either "row col"
or "#index". Boards are random unless a layout file fixes the mines:

	rows: 3
	cols: 3
	mines: [4]
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := setup(); err != nil {
			return err
		}

		board, err := newPlayBoard(cmd)
		if err != nil {
			return err
		}

		_, err = console.Play(cmd.Context(), board, cmd.InOrStdin(), cmd.OutOrStdout())
		if errors.Is(err, console.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "bye")
			return nil
		}
		return err
	},
}

func newPlayBoard(cmd *cobra.Command) (*mines.Board, error) {
	if layoutPath != "" {
		f, err := os.Open(layoutPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		layout, err := mines.LoadLayout(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", layoutPath, err)
		}
		return layout.NewBoard()
	}

	s := seed
	if !cmd.Flags().Changed("seed") {
		s = new(maphash.Hash).Sum64()
	}
	return mines.NewGame(playParams, rand.New(rand.NewPCG(s, s)))
}

func init() {
	flags := playCmd.Flags()
	flags.IntVarP(&playParams.Rows, "rows", "r", 9, "number of rows")
	flags.IntVarP(&playParams.Cols, "cols", "c", 9, "number of columns")
	flags.IntVarP(&playParams.MineCount, "mines", "m", 10, "number of mines")
	flags.StringVar(&layoutPath, "layout", "", "yaml file with a fixed mine layout")
	flags.Uint64Var(&seed, "seed", 0, "random seed, for reproducible boards")

	rootCmd.AddCommand(playCmd)
}
