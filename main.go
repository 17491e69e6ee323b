package main

import (
	"fmt"
	"os"

	"github.com/bnema/padwatch/cmd"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/bnema/padwatch/internal/ui"
)

func main() {
	err := cmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		os.Exit(1)
	}
}
