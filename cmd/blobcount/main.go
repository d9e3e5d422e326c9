package main

import "github.com/MeKo-Tech/blobcount/cmd/blobcount/cmd"

func main() {
	cmd.Execute()
}
