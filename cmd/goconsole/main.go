package main

import (
	"github.com/MrEthical07/goConsole/cmd/goconsole/cli"
)

func main() {
	cli.InitAndExecute()
}
