package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats [werte...]",
	Short: "Berechnet Kennzahlen einer Zahlenreihe",
	Long: `Berechnet Anzahl, Summe, Mittelwert, Median, Modus, Spannweite sowie
Populations- und Stichprobenvarianz. Ohne Argumente wird die Reihe von
stdin gelesen. Werte werden durch Kommas oder Leerzeichen getrennt.`,
	Example: `  mrw stats 1 2 3 4
  seq 1 100 | mrw stats`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return mdwerror.Wrap(err, "failed to read stdin").WithCode(mdwerror.CodeInvalidInput)
		}
		input = string(data)
	}

	resp, err := service.New(service.DefaultConfig()).Statistics(cmd.Context(), &service.StatsRequest{Input: input})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(cmd, resp)
	}
	printLines(cmd, resp.Lines())
	return nil
}
