/*
 * Copyright (c) Johan Stenstam, johani@johani.org
 */
package cmd

import (
	"github.com/johanix/dsboot/dsboot/cli"
)

func init() {
	// From ../../../dsboot/cli/generate_cmds.go:
	rootCmd.AddCommand(cli.GenerateCmd, cli.FilenameCmd)

	// From ../../../dsboot/cli/config_cmds.go:
	rootCmd.AddCommand(cli.ConfigCmd)

	rootCmd.AddCommand(cli.VersionCmd)
}
