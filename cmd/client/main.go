package main

import (
	"sitecheck/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
