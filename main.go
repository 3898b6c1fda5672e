package main

import (
	"os"

	"github.com/lidapp/lid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
