package main

import "github.com/calderanet/caldera-cli/cmd"

func main() {
	cmd.Execute()
}
