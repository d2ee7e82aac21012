package main

import (
	"github.com/recallnet/recall-go/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
