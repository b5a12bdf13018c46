package main

import "prodigy/cmd/prodigy/root"

func main() {
	root.Execute()
}
