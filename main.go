package main

import "github.com/envseal/envseal/cmd"

func main() {
	cmd.Execute()
}
