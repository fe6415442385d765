package main

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moble/SphericalFunctions/swsh"
)

type gridFlags struct {
	spin, ellMax int
	nTheta, nPhi int
	modesPath    string
	modes        []string
	analyzePath  string
}

func (a *app) newGridCmd() *cobra.Command {
	var f gridFlags

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Synthesize a mode set on a sphere grid, or analyze grid values",
		Long: `Synthesize f = sum f_lm sY_lm on a Gauss-Legendre x uniform grid,
written as CSV rows j,k,theta,phi,re,im. Coefficients come from a CSV file
of ell,m,re,im rows (--modes-file) or from unit coefficients (--mode l:m).

With --analyze the command instead reads grid values as re,im rows in
row-major order and writes the mode coefficients as ell,m,re,im.

Rows are evaluated in parallel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGrid(cmd, &f)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&f.spin, "spin", "s", 0, "Spin weight s")
	flags.IntVarP(&f.ellMax, "ell-max", "l", 4, "Largest degree")
	flags.IntVar(&f.nTheta, "n-theta", 0, "Polar nodes (default from config)")
	flags.IntVar(&f.nPhi, "n-phi", 0, "Azimuthal nodes (default from config)")
	flags.StringVar(&f.modesPath, "modes-file", "", "CSV file of ell,m,re,im coefficients ('-' for stdin)")
	flags.StringSliceVar(&f.modes, "mode", nil, "Unit coefficient for mode l:m (repeatable)")
	flags.StringVar(&f.analyzePath, "analyze", "", "CSV file of grid values to analyze ('-' for stdin)")
	flags.IntVar(&a.overrides.Workers, "workers", 0, "Parallel rows (default from config, then GOMAXPROCS)")
	return cmd
}

func (a *app) runGrid(cmd *cobra.Command, f *gridFlags) error {
	wc, err := a.cfg.Wigner.Evaluator()
	if err != nil {
		return err
	}
	ev, err := swsh.New(wc)
	if err != nil {
		return err
	}

	nTheta, nPhi := a.cfg.Grid.NTheta, a.cfg.Grid.NPhi
	if f.nTheta > 0 {
		nTheta = f.nTheta
	}
	if f.nPhi > 0 {
		nPhi = f.nPhi
	}
	grid, err := ev.NewGrid(nTheta, nPhi)
	if err != nil {
		return err
	}

	if f.analyzePath != "" {
		return a.analyzeGrid(cmd, grid, f)
	}

	modes, err := loadModes(cmd, f)
	if err != nil {
		return err
	}

	workers := a.cfg.Grid.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([][]complex128, nTheta)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for j := range nTheta {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := grid.SynthesizeRow(j, modes)
			if err != nil {
				return fmt.Errorf("row %d: %w", j, err)
			}
			rows[j] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Debug("synthesized grid",
		zap.Int("n_theta", nTheta), zap.Int("n_phi", nPhi), zap.Int("workers", workers))

	tw, err := newTableWriter(cmd.OutOrStdout(), "j", "k", "theta", "phi", "re", "im")
	if err != nil {
		return err
	}
	for j, row := range rows {
		for k, v := range row {
			if err := tw.Row(j, k, grid.Theta(j), grid.Phi(k), real(v), imag(v)); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func (a *app) analyzeGrid(cmd *cobra.Command, grid *swsh.Grid, f *gridFlags) error {
	table, err := readTableFile(f.analyzePath, cmd.InOrStdin(), 2)
	if err != nil {
		return err
	}
	values := make([]complex128, len(table))
	for i, r := range table {
		values[i] = complex(r[0], r[1])
	}
	modes, err := grid.Analyze(values, f.spin, f.ellMax)
	if err != nil {
		return err
	}
	a.logger.Debug("analyzed grid", zap.Int("values", len(values)), zap.Int("modes", modes.Len()))
	return writeModes(cmd, modes)
}

// loadModes builds the coefficient set from --modes-file and --mode.
func loadModes(cmd *cobra.Command, f *gridFlags) (*swsh.ModeSet, error) {
	modes, err := swsh.NewModeSet(f.spin, f.ellMax)
	if err != nil {
		return nil, err
	}
	if f.modesPath == "" && len(f.modes) == 0 {
		return nil, fmt.Errorf("no coefficients: use --modes-file or --mode")
	}

	if f.modesPath != "" {
		table, err := readTableFile(f.modesPath, cmd.InOrStdin(), 4)
		if err != nil {
			return nil, err
		}
		for i, r := range table {
			ell, m := int(r[0]), int(r[1])
			if float64(ell) != r[0] || float64(m) != r[1] {
				return nil, fmt.Errorf("row %d: non-integer mode (%g, %g)", i+1, r[0], r[1])
			}
			if err := modes.Set(ell, m, complex(r[2], r[3])); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
		}
	}

	for _, arg := range f.modes {
		ell, m, err := parseMode(arg)
		if err != nil {
			return nil, err
		}
		if err := modes.Set(ell, m, 1); err != nil {
			return nil, err
		}
	}
	return modes, nil
}

// parseMode parses "l:m".
func parseMode(s string) (ell, m int, err error) {
	l, r, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("mode %q: want l:m", s)
	}
	if ell, err = strconv.Atoi(strings.TrimSpace(l)); err != nil {
		return 0, 0, fmt.Errorf("mode %q: %w", s, err)
	}
	if m, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, fmt.Errorf("mode %q: %w", s, err)
	}
	return ell, m, nil
}
