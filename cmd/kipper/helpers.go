package main

import (
	"github.com/kinoite/kipper/internal/errmsg"
	"github.com/kinoite/kipper/internal/ui"
)

// printError prints an error to stderr as a tagged [ERR] line, with the
// causes and suggestions the errmsg package attaches to the installer's
// error types. Plain errors print unchanged.
func printError(err error) {
	ui.Default.Error("%s", errmsg.Format(err))
}
