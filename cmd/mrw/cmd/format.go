package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/rechenwerk/internal/service"
)

var (
	formatMode   string
	formatDigits int
	formatGroup  bool
)

var formatCmd = &cobra.Command{
	Use:   "format <zahl>",
	Short: "Formatiert eine Zahl wie die Rechneranzeige",
	Example: `  mrw format 1e13
  mrw format 1234567 --group
  mrw format 3.14159 --mode precision --digits 3`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().StringVar(&formatMode, "mode", service.FormatDisplay, "display, shortest, exponential oder precision")
	formatCmd.Flags().IntVar(&formatDigits, "digits", 6, "Stellen für exponential und precision")
	formatCmd.Flags().BoolVar(&formatGroup, "group", false, "Tausendertrennzeichen einfügen")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	resp, err := service.New(service.DefaultConfig()).Format(cmd.Context(), &service.FormatRequest{
		Value:  service.Field(args[0]),
		Mode:   formatMode,
		Digits: formatDigits,
		Group:  formatGroup,
	})
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(cmd, resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
	return nil
}
