package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moble/SphericalFunctions/wigner"
)

func (a *app) newWignerCmd() *cobra.Command {
	var (
		ellMax int
		rot    rotationFlags
	)

	cmd := &cobra.Command{
		Use:   "wigner",
		Short: "Evaluate the Wigner D-matrices of a rotation",
		Long: `Evaluate D^l_{m'm}(R) for 0 <= l <= ell-max, written as CSV rows
ell,mp,m,re,im. With verify_unitarity set in the config file every block
is checked before output.`,
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
			ev, err := wigner.New(wc)
			if err != nil {
				return err
			}
			rotor, err := ev.Rotor(R)
			if err != nil {
				return err
			}
			d, err := rotor.Matrix(ellMax)
			if err != nil {
				return err
			}
			a.logger.Debug("evaluated D-matrices",
				zap.Int("ell_max", ellMax),
				zap.Stringer("method", wc.Method),
				zap.Float64("beta", rotor.Beta()))

			tw, err := newTableWriter(cmd.OutOrStdout(), "ell", "mp", "m", "re", "im")
			if err != nil {
				return err
			}
			data := d.Data()
			for ell := 0; ell <= ellMax; ell++ {
				for mp := -ell; mp <= ell; mp++ {
					for m := -ell; m <= ell; m++ {
						v := data[wigner.Index(ell, mp, m)]
						if err := tw.Row(ell, mp, m, real(v), imag(v)); err != nil {
							return err
						}
					}
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&ellMax, "ell-max", "l", 2, "Largest degree")
	rot.register(cmd)
	return cmd
}
