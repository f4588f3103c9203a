package main

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
	"github.com/spf13/cobra"
)

var (
	rotBody  string
	rotEpoch string
)

var rotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Print the body fixed rotation matrix and its rate",
	Long: `Print the rotation from the J2000 equatorial frame to the body fixed frame,
its time derivative (1/s) and its determinant.

The epoch is an A.1 modified Julian date or a UTC date such as "01 Jan 2000 11:59:28.000".`,
	Args: cobra.NoArgs,
	RunE: runRotation,
}

func init() {
	rotationCmd.Flags().StringVar(&rotBody, "body", "Earth", "body name")
	rotationCmd.Flags().StringVar(&rotEpoch, "epoch", "21545", "epoch")
}

func runRotation(cmd *cobra.Command, args []string) error {
	conv, system, err := environment()
	if err != nil {
		return err
	}
	epoch, err := conv.ParseEpoch(rotEpoch)
	if err != nil {
		return err
	}
	axes, err := conf.Axes(system, rotBody, conv)
	if err != nil {
		return err
	}
	rot, rotDot, err := axes.ComputeRotation(epoch, false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s) at A.1 %f\n", axes.Origin().Name, axes.Class(), epoch)
	fmt.Fprintf(out, "R =\n%.15e\n", mat64.Formatted(rot, mat64.Prefix("    ")))
	fmt.Fprintf(out, "dR/dt =\n%.15e\n", mat64.Formatted(rotDot, mat64.Prefix("    ")))
	fmt.Fprintf(out, "det(R) = %.15f\n", mat64.Det(rot))
	return nil
}
