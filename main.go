package main

import "github.com/ravelandante/field-tagger/cmd"

func main() {
	cmd.Execute()
}
