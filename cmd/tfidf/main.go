package main

import "tfidf/internal/cli"

func main() {
	cli.Execute()
}
