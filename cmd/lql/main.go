package main

import "github.com/lql-project/lql/internal/cli"

func main() {
	cli.Execute()
}
