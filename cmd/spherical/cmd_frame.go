package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/moble/SphericalFunctions/frame"
	"github.com/moble/SphericalFunctions/quaternion"
)

func (a *app) newFrameCmd() *cobra.Command {
	var (
		input   string
		initial string
	)

	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Integrate angular velocity samples into rotating frames",
		Long: `Integrate dR/dt = 1/2 R w (body convention) or dR/dt = 1/2 w R
(inertial convention) from CSV rows t,wx,wy,wz, written as CSV rows
t,w,x,y,z of the unit frame quaternion at every sample time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := readTableFile(input, cmd.InOrStdin(), 4)
			if err != nil {
				return err
			}
			times := make([]float64, len(table))
			omega := make([]r3.Vec, len(table))
			for i, r := range table {
				times[i] = r[0]
				omega[i] = r3.Vec{X: r[1], Y: r[2], Z: r[3]}
			}

			cfg, err := a.cfg.Frame.Integrator(a.logger)
			if err != nil {
				return err
			}
			if initial != "" {
				v, err := parseFloats(initial, 4)
				if err != nil {
					return fmt.Errorf("--initial: %w", err)
				}
				cfg.Initial = quaternion.New(v[0], v[1], v[2], v[3])
			}
			in, err := frame.New(cfg)
			if err != nil {
				return err
			}
			series, err := in.Integrate(times, omega)
			if err != nil {
				return err
			}

			tw, err := newTableWriter(cmd.OutOrStdout(), "t", "w", "x", "y", "z")
			if err != nil {
				return err
			}
			for i, q := range series.Frames {
				if err := tw.Row(series.Times[i], q.W(), q.X(), q.Y(), q.Z()); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "-", "CSV file of t,wx,wy,wz rows ('-' for stdin)")
	flags.StringVar(&initial, "initial", "", "Initial frame quaternion w,x,y,z (default identity)")
	flags.StringVar(&a.overrides.Convention, "convention", "", "body or inertial (default from config)")
	flags.StringVar(&a.overrides.Interpolation, "interpolation", "", "natural-cubic, akima or linear (default from config)")
	flags.IntVar(&a.overrides.Substeps, "substeps", 0, "RK4 steps between samples (default from config)")
	return cmd
}
