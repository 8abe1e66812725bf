package main

import "github.com/rpggio/trendify/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
