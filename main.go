package main

import "github.com/vpdb/vbsc/cmd"

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
