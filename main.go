package main

import "github.com/pontocerto/timeclock/cmd"

func main() {
	cmd.Execute()
}
