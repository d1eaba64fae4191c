package main

import (
	"fmt"
	"os"

	"github.com/syxlang/syx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
