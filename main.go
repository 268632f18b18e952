// Package main is the entry point for the precheck CLI.
package main

import "precheck.dev/pkg/precheck/cmd"

func main() {
	cmd.Execute()
}
