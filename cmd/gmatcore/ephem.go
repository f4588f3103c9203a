package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
)

var (
	ephemFile  string
	ephemBody  string
	ephemEpoch string
)

var ephemCmd = &cobra.Command{
	Use:   "ephem",
	Short: "Inspect DE ephemerides",
}

var ephemInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the header of a DE file",
	Args:  cobra.NoArgs,
	RunE:  runEphemInfo,
}

var ephemStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the J2000 state of a body relative to the J2000 body",
	Args:  cobra.NoArgs,
	RunE:  runEphemState,
}

func init() {
	ephemInfoCmd.Flags().StringVar(&ephemFile, "file", "", "DE file (defaults to ephemeris.de_file)")
	ephemStateCmd.Flags().StringVar(&ephemBody, "body", "Luna", "body name")
	ephemStateCmd.Flags().StringVar(&ephemEpoch, "epoch", "21545", "epoch")
	ephemCmd.AddCommand(ephemInfoCmd, ephemStateCmd)
}

func runEphemInfo(cmd *cobra.Command, args []string) error {
	if ephemFile == "" {
		ephemFile = conf.DEFile
	}
	if ephemFile == "" {
		return fmt.Errorf("no DE file")
	}
	conv, err := conf.Converter()
	if err != nil {
		return err
	}
	src, err := ephemeris.Open(ephemFile, conv)
	if err != nil {
		return err
	}
	h := src.Header()
	start, end, err := src.Span()
	if err != nil {
		return err
	}
	day, year := src.StartDayAndYear()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (DE%d)\n", h.Title, h.DENumber)
	fmt.Fprintf(out, "TDB JD %f to %f by %f days, starting on day %d of %d\n", h.Start, h.End, h.Step, day, year)
	fmt.Fprintf(out, "A.1 span %f to %f\n", start, end)
	fmt.Fprintf(out, "AU = %f km, EMRAT = %f, %d constants\n", h.AU, h.EMRAT, len(h.ConstantNames))
	return nil
}

func runEphemState(cmd *cobra.Command, args []string) error {
	conv, system, err := environment()
	if err != nil {
		return err
	}
	epoch, err := conv.ParseEpoch(ephemEpoch)
	if err != nil {
		return err
	}
	body, err := system.Body(ephemBody)
	if err != nil {
		return err
	}
	state, err := body.MJ2000State(epoch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s relative to %s at A.1 %f: %v\n", body.Name, system.J2000Body().Name, epoch, state)
	return nil
}
