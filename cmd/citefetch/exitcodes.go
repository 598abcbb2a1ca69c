package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (runtime failure, failed fetches)
	ExitConfigError = 2 // Configuration error (bad config file, bad flags)
)
