package main

import "github.com/jordanwade90/litestore/cmd/litestore/cmd"

func main() {
	cmd.Execute()
}
