/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/johanix/dsboot/dsboot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var GenerateCmd = &cobra.Command{
	Use:   "generate [nameserver ...]",
	Short: "Generate signaling zones from the CDS/CDNSKEY and NS records of a zone read from stdin",
	Long: `Generate signaling records for Authenticated DNSSEC Bootstrapping from an existing zone.

For each child with CDS/CDNSKEY records the records are copied to _dsboot.{child}
in the signaling zone _signal.{nameserver} of each of the child's nameservers. If
nameservers are given on the command line, NS records in the input are ignored and
the given nameservers are used for all children.`,
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := dsboot.ValidateConfig(nil, dsboot.Globals.CfgFile)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if err := dsboot.SetupLogging(conf.Log.File); err != nil {
			log.Fatalf("Error setting up logging: %v", err)
		}

		opts := GenerateOpts{
			Nameservers: args,
			ReadFiles:   conf.Dsboot.ReadFiles,
			WriteFiles:  conf.Dsboot.WriteFiles,
			ZoneDir:     conf.Dsboot.ZoneDir,
			Summary:     dsboot.Globals.Summary,
		}
		if len(opts.Nameservers) == 0 {
			opts.Nameservers = conf.Dsboot.Nameservers
		}

		in := io.Reader(os.Stdin)
		if dsboot.Globals.InputFile != "" && dsboot.Globals.InputFile != "-" {
			f, err := os.Open(dsboot.Globals.InputFile)
			if err != nil {
				log.Fatalf("Error: %v", err)
			}
			defer f.Close()
			in = f
		}

		if err := RunGenerate(opts, in, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var FilenameCmd = &cobra.Command{
	Use:   "filename <nameserver> [nameserver ...]",
	Short: "Print the signaling zone file name used for each nameserver",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, ns := range args {
			fname, err := dsboot.SignalingZoneFilename(dsboot.SignalingDomainFor(ns))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(fname)
		}
	},
}

type GenerateOpts struct {
	Nameservers []string
	ReadFiles   bool
	WriteFiles  bool
	ZoneDir     string
	Summary     bool
}

// RunGenerate processes in and either prints the signaling zones to out or
// writes them to their files. The summary table, if requested, goes to errout.
func RunGenerate(opts GenerateOpts, in io.Reader, out, errout io.Writer) error {
	g := dsboot.NewGenerator(dsboot.GeneratorConf{
		Nameservers: opts.Nameservers,
		ReadFiles:   opts.ReadFiles,
		ZoneDir:     opts.ZoneDir,
		Zones:       dsboot.NewZoneStore(),
		Logger:      log.Default(),
		Verbose:     dsboot.Globals.Verbose,
		Debug:       dsboot.Globals.Debug,
	})

	if err := g.Process(in); err != nil {
		return err
	}
	if err := g.Write(opts.WriteFiles, out); err != nil {
		return err
	}
	if opts.Summary {
		fmt.Fprintln(errout, g.Zones.Summary(g.ZoneDir))
	}
	return nil
}

func init() {
	GenerateCmd.Flags().BoolVarP(&dsboot.Globals.ReadFiles, "read-files", "r", false, "Read signaling zone files for update")
	GenerateCmd.Flags().BoolVarP(&dsboot.Globals.WriteFiles, "write-files", "w", false, "Write signaling zone files, create if needed")
	GenerateCmd.Flags().StringVarP(&dsboot.Globals.InputFile, "input", "i", "", "Read the zone from this file instead of stdin")
	GenerateCmd.Flags().BoolVar(&dsboot.Globals.Summary, "summary", false, "Print a summary of the signaling zones to stderr")

	viper.BindPFlag("dsboot.readfiles", GenerateCmd.Flags().Lookup("read-files"))
	viper.BindPFlag("dsboot.writefiles", GenerateCmd.Flags().Lookup("write-files"))
}
