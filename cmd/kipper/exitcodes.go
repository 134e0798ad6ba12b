package main

import "os"

// Exit codes for the installer. The contract is deliberately small:
// anything that stops an install or uninstall exits 1, so wrapper
// scripts only have to test for success.
const (
	// ExitSuccess indicates successful execution, including a declined
	// reinstall
	ExitSuccess = 0

	// ExitGeneral indicates any error, including bad usage
	ExitGeneral = 1
)

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
