package main

// Overridden at build time with -ldflags "-X main.appVersion=..."
var (
	appName    = "dsboot"
	appVersion = "0.1.0"
	appDate    = "unknown"
)
