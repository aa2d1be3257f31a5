package main

import "github.com/verdantis/storefront/cmd"

func main() {
	cmd.Start()
}
