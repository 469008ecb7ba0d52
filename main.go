package main

import "github.com/HaiFongPan/pubdrop/cmd"

func main() {
	cmd.Execute()
}
