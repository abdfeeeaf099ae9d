package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrymomot/markdownup/app/markdownup"
	"github.com/dmitrymomot/markdownup/cmd/markdown-up/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, markdownup.ErrPathNotExist) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
