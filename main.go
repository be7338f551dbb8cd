// Package main is the entry of the chartline command.
package main

import "github.com/sarchlab/chartline/cmd"

func main() {
	cmd.Execute()
}
