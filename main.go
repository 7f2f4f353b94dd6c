package main

import (
	"VSLauncher/internal/cli"
)

func main() {
	exiter, code := cli.Run()
	exiter(code)
}
