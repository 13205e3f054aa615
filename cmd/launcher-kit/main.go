package main

import "Mansoor88-6/launcher-kit/internal/cli"

func main() {
	cli.Execute()
}
