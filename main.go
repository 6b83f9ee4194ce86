package main

import "github.com/theopenlane/sentinel/cmd"

func main() {
	cmd.Execute()
}
