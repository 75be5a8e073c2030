package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tronghieu/ezlib-sub005/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
