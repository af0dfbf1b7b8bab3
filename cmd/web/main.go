package main

import "archived_backend/cmd/web/cmd"

func main() {
	cmd.Execute()
}
