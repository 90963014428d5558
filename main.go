// Package main is the entry point for the bundlekit CLI.
package main

import "bundlekit.dev/pkg/bundlekit/cmd"

func main() {
	cmd.Execute()
}
