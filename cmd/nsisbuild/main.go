// nsisbuild drives the NSIS script compiler (makensis) from a build
// pipeline: it generates a project header file, assembles the compiler
// command line from the build descriptor, runs the compiler and attaches
// the produced installer as a build artifact.
package main

import "github.com/haakonra/nsisbuild/cmd/nsisbuild/internal"

func main() {
	internal.Execute()
}
