package main

import "github.com/Tiliavir/hours-calendar/cmd"

func main() {
	cmd.Execute()
}
