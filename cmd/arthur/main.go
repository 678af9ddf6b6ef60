// Command arthur is the DanielOS agent CLI: an interactive chat loop,
// a connectivity/seeding command, and an HTTP chat server.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "arthur",
		Short:         "Arthur, the DanielOS conversational agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newTalkCmd(), newIgniteCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		log.Printf("arthur: %v", err)
		os.Exit(1)
	}
}
