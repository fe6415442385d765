package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moble/SphericalFunctions/quaternion"
	"github.com/moble/SphericalFunctions/swsh"
)

// rotationFlags selects a rotation either from spherical angles or from an
// explicit quaternion.
type rotationFlags struct {
	theta, phi float64
	quat       string
}

func (f *rotationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.theta, "theta", 0, "Polar angle in radians")
	cmd.Flags().Float64Var(&f.phi, "phi", 0, "Azimuth in radians")
	cmd.Flags().StringVar(&f.quat, "quat", "", "Rotation quaternion w,x,y,z (overrides --theta/--phi)")
}

func (f *rotationFlags) rotation() (quaternion.Quaternion, error) {
	if f.quat == "" {
		return quaternion.FromSpherical(f.theta, f.phi), nil
	}
	v, err := parseFloats(f.quat, 4)
	if err != nil {
		return quaternion.Quaternion{}, fmt.Errorf("--quat: %w", err)
	}
	return quaternion.New(v[0], v[1], v[2], v[3]).AsRotation()
}

func (a *app) newSWSHCmd() *cobra.Command {
	var (
		spin, ellMax int
		rot          rotationFlags
	)

	cmd := &cobra.Command{
		Use:   "swsh",
		Short: "Evaluate all sY_lm in one direction",
		Long: `Evaluate the spin-weighted spherical harmonics sY_lm for every
|s| <= l <= ell-max and |m| <= l at one rotation, written as CSV rows
ell,m,re,im.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			R, err := rot.rotation()
			if err != nil {
				return err
			}
			wc, err := a.cfg.Wigner.Evaluator()
			if err != nil {
				return err
			}
			ev, err := swsh.New(wc)
			if err != nil {
				return err
			}
			modes, err := ev.Modes(spin, ellMax, R)
			if err != nil {
				return err
			}
			a.logger.Debug("evaluated harmonics",
				zap.Int("spin", spin), zap.Int("ell_max", ellMax), zap.Int("modes", modes.Len()))
			return writeModes(cmd, modes)
		},
	}
	cmd.Flags().IntVarP(&spin, "spin", "s", 0, "Spin weight s")
	cmd.Flags().IntVarP(&ellMax, "ell-max", "l", 8, "Largest degree")
	rot.register(cmd)
	return cmd
}

func writeModes(cmd *cobra.Command, modes *swsh.ModeSet) error {
	tw, err := newTableWriter(cmd.OutOrStdout(), "ell", "m", "re", "im")
	if err != nil {
		return err
	}
	for ell := modes.EllMin(); ell <= modes.EllMax(); ell++ {
		for m := -ell; m <= ell; m++ {
			v := modes.Data()[swsh.ModeIndex(ell, m)]
			if err := tw.Row(ell, m, real(v), imag(v)); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}
