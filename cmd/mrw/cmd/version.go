package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/rechenwerk/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if jsonOut {
			return printJSON(cmd, info)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "meinRECHENWERK v%s\n", info.Version)
		fmt.Fprintf(out, "  Engine:     %s\n", version.Engine)
		fmt.Fprintf(out, "  Gateway:    %s\n", version.Gateway)
		fmt.Fprintf(out, "  gRPC:       %s\n", version.RPC)
		fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
		fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
