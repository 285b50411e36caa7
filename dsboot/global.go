/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package dsboot

import (
	"fmt"
)

type AppDetails struct {
	Name    string
	Version string
	Date    string
}

type GlobalStuff struct {
	App        AppDetails
	Verbosity  int
	Verbose    bool
	Debug      bool
	ReadFiles  bool
	WriteFiles bool
	Summary    bool
	ZoneDir    string
	InputFile  string
	CfgFile    string // config file actually used, if any
}

var Globals = GlobalStuff{
	Verbose: false,
	Debug:   false,
	ZoneDir: ".",
}

// SetVerbosity maps a -v count onto the Verbose and Debug flags.
func (gs *GlobalStuff) SetVerbosity(count int) {
	gs.Verbosity = count
	gs.Verbose = count >= 1
	gs.Debug = count >= 2
}

func (gs *GlobalStuff) Validate() error {
	if gs.Verbosity < 0 {
		return fmt.Errorf("invalid verbosity: %d", gs.Verbosity)
	}
	if gs.ZoneDir == "" {
		return fmt.Errorf("zone directory not specified")
	}
	return nil
}
