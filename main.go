package main

import (
	"os"
)

func main() {
	d := newDriver(os.Stdin, os.Stdout, os.Stderr)
	if err := d.Drive(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
