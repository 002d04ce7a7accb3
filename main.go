package main

import "github.com/sw33tLie/dispensa/cmd"

func main() {
	cmd.Execute()
}
