package main

import "github.com/ltjmm/ltjmm/cmd"

func main() {
	cmd.Execute()
}
