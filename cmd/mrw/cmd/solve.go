package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/rechenwerk/internal/service"
)

var solveCmd = &cobra.Command{
	Use:   "solve <linear|quadratic|cubic|system> <koeffizienten...>",
	Short: "Löst eine Gleichung",
	Long: `Löst lineare (a·x + b = 0), quadratische und kubische Gleichungen sowie
lineare 2×2-Systeme (a1 b1 c1 a2 b2 c2). Fehlende Koeffizienten zählen als 0.`,
	Example: `  mrw solve quadratic 1 0 -4
  mrw solve cubic 1 -6 11 -6
  mrw solve system 1 1 3 2 -1 0`,
	ValidArgs: []string{service.EquationLinear, service.EquationQuadratic, service.EquationCubic, service.EquationSystem},
	Args:      cobra.MinimumNArgs(1),
	RunE:      runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	req, err := service.ParseSolveArgs(args)
	if err != nil {
		return err
	}
	resp, err := service.New(service.DefaultConfig()).Solve(cmd.Context(), req)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(cmd, resp)
	}
	printLines(cmd, resp.Lines)
	return nil
}
