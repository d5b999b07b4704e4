package main

import "github.com/cerfaos/analyse/internal/cmd"

func main() {
	cmd.Execute()
}
