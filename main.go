package main

import "github.com/OilerRig/WebApp/internal/cli"

func main() {
	cli.Execute()
}
