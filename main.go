package main

import "boleteria/cmd"

func main() {
	cmd.Execute()
}
