package main

import "openmploop/cmd"

func main() {
	cmd.Execute()
}
