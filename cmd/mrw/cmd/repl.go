package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/msto63/rechenwerk/internal/repl"
)

var replHistoryFile string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Startet die interaktive Kommandozeile",
	Long: `Startet eine Kommandozeile mit Zeilenbearbeitung und Vervollständigung.
Eingaben sind Tastenfolgen ("12 + 3 =") oder Befehle (":solve", ":stats",
":convert", ":history", ":recall", ":angle", ":help", ":quit").`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().StringVar(&replHistoryFile, "input-history", "", "Datei für die Eingabehistorie (default: <data_dir>/repl_history)")
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	historyFile := replHistoryFile
	if historyFile == "" && env.config.History.Store != "memory" {
		historyFile = filepath.Join(env.config.General.DataDir, "repl_history")
	}
	rl, err := repl.NewReadline(historyFile)
	if err != nil {
		return err
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintln(out, "meinRECHENWERK - :help für Hilfe, :quit zum Beenden")
	return repl.New(env.newSession(ctx), env.service, out).Run(ctx, rl)
}
