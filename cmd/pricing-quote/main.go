package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/checkout-pricing/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pricing-quote:", err)
		os.Exit(1)
	}
}
