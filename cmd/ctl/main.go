package main

import (
	"fmt"
	"os"

	"github.com/truthlens/truthlens/internal/ctl"
)

func main() {
	if err := ctl.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
