package main

import "doctrans/internal/cli"

func main() {
	cli.Execute()
}
