package main

import (
	"log"

	"github.com/ivlev/tweenline/internal/cli"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}
