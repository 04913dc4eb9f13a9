package main

import "github.com/konselapp/konsel_backend/cmd"

func main() {
	cmd.Execute()
}
