package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"

	"github.com/ztrustlabs/go-inspector-client/cmd/inspector/commands"
	"github.com/ztrustlabs/go-inspector-client/internal/config"
)

func main() {
	displayAppName(config.New().GetAppName())
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
