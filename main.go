package main

import "github.com/vcampelo/zaporder/cmd"

func main() {
	cmd.Execute()
}
