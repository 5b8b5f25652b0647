package main

import "github.com/TrevorS/dbscan/internal/cli"

var Version = "development"

func main() {
	cli.Execute(Version)
}
