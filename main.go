package main

import "mspro-labs/scent-scout/cmd"

func main() {
	cmd.Execute()
}
