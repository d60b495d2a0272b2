package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/convert"
	"github.com/msto63/rechenwerk/internal/service"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Rechnet Zahlensysteme, Einheiten und Temperaturen um",
}

var convertBaseCmd = &cobra.Command{
	Use:     "base <wert> <von> [nach]",
	Short:   "Zahlensysteme (bin, oct, dec, hex)",
	Example: "  mrw convert base ff hex\n  mrw convert base 255 dec bin",
	Args:    cobra.RangeArgs(2, 3),
	RunE:    runConvert(service.ConvertBase),
}

var convertUnitCmd = &cobra.Command{
	Use:     "unit <kategorie> <wert> <von> <nach>",
	Short:   "Einheiten (length, mass, area, volume, time)",
	Example: "  mrw convert unit length 1 mi km",
	Args:    cobra.ExactArgs(4),
	RunE:    runConvert(service.ConvertUnit),
}

var convertTempCmd = &cobra.Command{
	Use:     "temp <wert> <von> <nach>",
	Aliases: []string{"temperature"},
	Short:   "Temperaturen (c, f, k)",
	Example: "  mrw convert temp 100 c f",
	Args:    cobra.ExactArgs(3),
	RunE:    runConvert(service.ConvertTemperature),
}

var convertUnitsCmd = &cobra.Command{
	Use:   "units [kategorie]",
	Short: "Listet Kategorien und Einheiten",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConvertUnits,
}

func init() {
	convertCmd.AddCommand(convertBaseCmd, convertUnitCmd, convertTempCmd, convertUnitsCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(kind string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		req, err := service.ParseConvertArgs(append([]string{kind}, args...))
		if err != nil {
			return err
		}
		resp, err := service.New(service.DefaultConfig()).Convert(cmd.Context(), req)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(cmd, resp)
		}
		printLines(cmd, resp.Lines())
		return nil
	}
}

func runConvertUnits(cmd *cobra.Command, args []string) error {
	categories := convert.Categories()
	if len(args) == 1 {
		if convert.Units(args[0]) == nil {
			return errors.InvalidInput(errors.ModuleConvert, "units", args[0], strings.Join(categories, ", "))
		}
		categories = args[:1]
	}

	result := make(map[string][]string, len(categories))
	for _, c := range categories {
		result[c] = convert.Units(c)
	}
	if jsonOut {
		return printJSON(cmd, result)
	}
	for _, c := range categories {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", c, strings.Join(result[c], " "))
	}
	return nil
}
