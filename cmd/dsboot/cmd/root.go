/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johanix/dsboot/dsboot"
)

var cfgFile string
var verbosity int

var rootCmd = &cobra.Command{
	Use:   "dsboot",
	Short: "dsboot generates signaling zones for Authenticated DNSSEC Bootstrapping",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		fmt.Sprintf("config file (default is %s)", dsboot.DefaultCfgFile))
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase output verbosity (-v verbose, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&dsboot.Globals.ZoneDir, "zonedir", ".",
		"directory for signaling zone files")

	viper.BindPFlag("dsboot.zonedir", rootCmd.PersistentFlags().Lookup("zonedir"))
}

// initConfig reads in config file and ENV variables if set. Without --config a
// missing default config file is not an error.
func initConfig() {
	dsboot.Globals.SetVerbosity(verbosity)
	dsboot.SetupCliLogging()

	dsboot.SetConfigDefaults(nil)
	viper.SetEnvPrefix("DSBOOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigFile(dsboot.DefaultCfgFile)
	}

	if err := viper.ReadInConfig(); err == nil {
		dsboot.Globals.CfgFile = viper.ConfigFileUsed()
		if dsboot.Globals.Verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" || !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Could not load config %s: Error: %v", viper.ConfigFileUsed(), err)
	}

	if err := dsboot.Globals.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
