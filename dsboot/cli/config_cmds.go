/*
 * Copyright (c) Johan Stenstam, johani@johani.org
 */
package cli

import (
	"fmt"
	"os"

	"github.com/johanix/dsboot/dsboot"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Prefix command, not useable by itself",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (config file, environment and flags)",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := dsboot.ValidateConfig(nil, dsboot.Globals.CfgFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		out, err := yaml.Marshal(conf)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if dsboot.Globals.CfgFile != "" {
			fmt.Printf("# config file: %s\n", dsboot.Globals.CfgFile)
		}
		fmt.Print(string(out))
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := dsboot.ValidateConfig(nil, dsboot.Globals.CfgFile); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config OK.")
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd, configValidateCmd)
}
