package main

import (
	"context"
	"fmt"
	"os"

	"github.com/robalobadob/wordle-registry/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "wordle:", err)
		os.Exit(1)
	}
}
