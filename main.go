package main

import "github.com/Mohsinsiddi/w3gate/cmd"

func main() {
	cmd.Execute()
}
