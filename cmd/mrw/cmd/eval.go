package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/calc/session"
)

var evalCmd = &cobra.Command{
	Use:   "eval <tasten...>",
	Short: "Wertet eine Tastenfolge aus",
	Long: `Drückt die angegebenen Tasten auf einem neuen Rechner und gibt die
Anzeige aus. Berechnungen landen im Verlauf.

Tasten: Ziffern und Zahlen, + - * / ^ mod, Funktionen (sqrt, sin, ln, fact, ...),
Konstanten (pi, e, phi, ...), = clear ce backspace negate angle.`,
	Example: `  mrw eval 12 + 3 =
  mrw eval 2 sqrt
  mrw eval angle 90 sin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	keys, err := session.ParseKeys(strings.Join(args, " "))
	if err != nil {
		return err
	}

	env, err := openEnvironment(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	snap := env.newSession(cmd.Context()).PressAll(keys)
	if jsonOut {
		return printJSON(cmd, snap)
	}

	if snap.Expression != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", snap.Expression, snap.Display)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), snap.Display)
	}
	if snap.Error != "" {
		return mdwerror.New(snap.Error).WithCode(mdwerror.CodeDomainError).WithOperation("eval")
	}
	return nil
}
