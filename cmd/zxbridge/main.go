package main

import "github.com/scantools/zxbridge/cmd/zxbridge/cmd"

func main() {
	cmd.Execute()
}
