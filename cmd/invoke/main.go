package main

import (
	"log"
	"os"

	"github.com/google/gops/agent"
	"github.com/viant/invoke/cmd"
)

var Version = "development"

func main() {
	go func() {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatal(err)
		}
	}()
	cmd.RunApp(Version, os.Args[1:])
}
