// Command rebacctl is a small operator CLI over the rebac engine: write
// tuples and schema, then ask check questions against them. It is
// grounded on the teacher's cmd/generate command tree (cobra commands
// registered onto a root command, flags read via cmd.Flags().GetString)
// and on the rest of the pack's convention of layering spf13/viper over
// cobra/pflag for config-file and environment-variable overrides.
package main

import (
	"fmt"
	"os"

	"github.com/relationkit/rebac/cmd/rebacctl/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
