package main

import (
	"fmt"
	"os"

	"github.com/temirov/pypublish/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the pypublish command-line application and exits with the status of the
// failing stage.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	exitCode, message := cli.ExitStatus(executionError)
	if len(message) > 0 {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, message)
	}
	os.Exit(exitCode)
}
