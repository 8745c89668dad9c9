package main

import (
	"os"

	"github.com/sohonetlabs/swift-sum/cmd/swift-sum/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
