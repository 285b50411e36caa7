/*
 * Johan Stenstam
 */
package cli

import (
	"fmt"

	"github.com/johanix/dsboot/dsboot"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the app, more or less verbosely",
	Run: func(cmd *cobra.Command, args []string) {
		if dsboot.Globals.Verbose {
			fmt.Printf("This is %s, version %s, compiled on %v\n", dsboot.Globals.App.Name, dsboot.Globals.App.Version, dsboot.Globals.App.Date)
		} else {
			fmt.Printf("%s %s\n", dsboot.Globals.App.Name, dsboot.Globals.App.Version)
		}
	},
}
