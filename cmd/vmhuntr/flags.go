package main

import "time"

// GlobalFlags holds persistent flags shared by the remote commands.
type GlobalFlags struct {
	APIUrl     string
	APITimeout time.Duration
}

// ServeFlags holds flags for the serve command.
type ServeFlags struct {
	Listen        string
	BasePath      string
	EnvFile       string
	ResultFile    string
	LogDir        string
	MetricsListen string
}

// LogsFlags holds flags for the logs command.
type LogsFlags struct {
	Since int
}
