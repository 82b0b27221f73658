package main

import (
	"fmt"
	"os"

	"github.com/GriffinCanCode/htmldesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "htmldesk:", err)
		os.Exit(1)
	}
}
