package cmd

import (
	"fmt"

	"github.com/abhisek/mathapp/internal/client"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version and, with --server, the API's",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "mathapp", version)

		withServer, _ := cmd.Flags().GetBool("server")
		if !withServer {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		res := newClient(cfg).Health(cmd.Context())
		if !res.Ok() {
			fmt.Fprintf(cmd.OutOrStdout(), "server %s: unreachable (%v)\n", cfg.Client.APIURL, res.Err())
			return nil
		}

		h := res.Value()
		fmt.Fprintf(cmd.OutOrStdout(), "server %s: %s\n", cfg.Client.APIURL, h.Version)
		if err := client.CheckCompatible(h.Version, version); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "  ", err)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("server", false, "Also query the configured API server")
}
