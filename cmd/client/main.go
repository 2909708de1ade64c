package main

import (
	"starbook/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
