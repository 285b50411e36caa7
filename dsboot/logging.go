/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package dsboot

import (
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging sends the standard logger to a rotated log file. An empty
// logfile leaves the CLI logging setup untouched.
func SetupLogging(logfile string) error {
	if logfile == "" {
		return nil
	}

	log.SetFlags(log.Lshortfile | log.Ltime)
	log.SetOutput(&lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    20,
		MaxBackups: 3,
		MaxAge:     14,
	})

	return nil
}

// SetupCliLogging sets up logging for CLI commands with file/line info when verbose or debug mode is enabled.
// Default CLI logging has no timestamps.
func SetupCliLogging() {
	if Globals.Verbose || Globals.Debug {
		log.SetFlags(log.Lshortfile | log.Ltime)
	} else {
		log.SetFlags(0)
	}
}
