package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/tui"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Startet die interaktive TUI",
	Long: `Startet die Terminal User Interface (TUI) von meinRECHENWERK.

Ansichten: Rechner, Gleichungen, Statistik, Umrechnung, Verlauf

Navigation:
  Tab       - Zwischen Ansichten wechseln
  Ziffern, . + - * / ^ %, Enter/=, Esc, Backspace - Rechnertasten
  :         - Befehlszeile (Funktionen, z.B. sqrt oder sin)
  Ctrl+T    - Helles/dunkles Theme
  Ctrl+C    - Beenden`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the UI; logs go to a file in verbose mode
	var logOut io.Writer = io.Discard
	if verbose && appConfig != nil {
		path := filepath.Join(appConfig.General.DataDir, "tui.log")
		if err := os.MkdirAll(appConfig.General.DataDir, 0755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				defer f.Close()
				logOut = f
			}
		}
	}
	logging.SetDefaults("", "", logOut)

	ctx := cmd.Context()
	env, err := openEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := tui.Run(ctx, env.newSession(ctx), env.service); err != nil {
		return mdwerror.Wrap(err, "TUI Fehler").WithCode(mdwerror.CodeInternal)
	}
	return nil
}
