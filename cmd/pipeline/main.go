package main

import "econ-data-pipeline/internal/cli"

func main() {
	cli.Execute()
}
