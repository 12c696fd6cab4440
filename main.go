// main.go
package main

import "github.com/gewnthar/arrivals/commands"

func main() {
	commands.Execute()
}
