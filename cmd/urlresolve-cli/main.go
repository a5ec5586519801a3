package main

import "urlresolver/cmd/urlresolve-cli/cmd"

func main() {
	cmd.Execute()
}
