// Package main is the entry point for the pdffinder binary.
package main

import "github.com/pdfexplorer/pdffinder/cmd"

func main() {
	cmd.Execute()
}
