package main

import "github.com/amirhossein5/facestore/cmd"

func main() {
	cmd.Execute()
}
