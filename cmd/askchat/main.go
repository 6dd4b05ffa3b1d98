package main

import "github.com/diogo/askchat/internal/commands"

func main() {
	commands.Execute()
}
