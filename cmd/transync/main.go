package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/msto63/transync/cmd/transync/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil && !errors.Is(err, cmd.ErrFindings) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
