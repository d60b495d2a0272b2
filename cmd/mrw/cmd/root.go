package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/pkg/core/config"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
	dbPath  string
	jsonOut bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mrw",
	Short: "meinRECHENWERK - Rechner-Engine",
	Long: `meinRECHENWERK ist ein wissenschaftlicher Taschenrechner mit
Gleichungslöser, Statistik und Umrechnern.

Oberflächen:
  eval     - Tastenfolge auswerten
  repl     - Interaktive Kommandozeile
  tui      - Terminal-Oberfläche
  serve    - HTTP-Gateway (:8080) und gRPC-Server (:9090)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command tree and prints the error, if any.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $MRW_CONFIG oder ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite-Datenbank für Verlauf und Einstellungen (leer: nur im Speicher)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Ausgabe als JSON")
}

// setup loads the configuration and applies it to the logging defaults. A
// missing config file is not an error.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
		if mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
			appConfig, err = config.Default(), nil
		}
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("db") {
		if dbPath == "" {
			appConfig.History.Store = "memory"
		} else {
			appConfig.History.Store = "sqlite"
			appConfig.History.Path = dbPath
		}
	}

	level := appConfig.General.LogLevel
	if verbose {
		level = "debug"
	}
	logging.SetDefaults(level, appConfig.General.LogFormat, os.Stderr)
	return nil
}

func printError(err error) {
	msg := err.Error()
	if e, ok := mdwerror.As(err); ok {
		msg = e.Message()
		if e.Code() != "" {
			msg = fmt.Sprintf("%s [%s]", msg, e.Code())
		}
	}
	fmt.Fprintf(os.Stderr, "Fehler: %s\n", msg)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLines(cmd *cobra.Command, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
