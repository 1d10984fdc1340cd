package main

import "github.com/shandysiswandi/godataset/cmd"

func main() {
	cmd.Execute()
}
