package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Zeigt oder löscht den Verlauf",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Listet den Verlauf, neueste Einträge zuerst",
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Löscht den Verlauf",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 0, "Maximale Anzahl Einträge (0: alle)")
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	entries := env.history.Entries()
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	if jsonOut {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Verlauf ist leer")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s = %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Expression, e.Result)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	n := env.history.Len()
	if err := env.history.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d Einträge gelöscht\n", n)
	return nil
}
