package main

import "fieldkeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
