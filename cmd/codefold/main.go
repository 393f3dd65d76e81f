package main

import "github.com/mvp-joe/codefold/internal/cli"

func main() {
	cli.Execute()
}
