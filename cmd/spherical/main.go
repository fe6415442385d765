// Command spherical evaluates spin-weighted spherical harmonics and Wigner
// D-matrices, synthesizes mode sets on sphere grids and integrates angular
// velocity series into rotating frames.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
