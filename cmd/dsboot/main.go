/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */
package main

import (
	"github.com/johanix/dsboot/cmd/dsboot/cmd"
	"github.com/johanix/dsboot/dsboot"
)

func main() {
	dsboot.Globals.App.Name = appName
	dsboot.Globals.App.Version = appVersion
	dsboot.Globals.App.Date = appDate
	cmd.Execute()
}
