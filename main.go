package main

import "github.com/dukerupert/wgpeerctl/cmd"

func main() {
	cmd.Execute()
}
