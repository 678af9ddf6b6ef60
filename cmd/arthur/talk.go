package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielos/arthur/config"
)

// exit sentinels for the read loop.
var exitCommands = map[string]bool{"exit": true, "quit": true, "q": true}

func newTalkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "talk",
		Short: "Interactive chat session with Arthur",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Println(strings.Repeat("=", 50))
			fmt.Println("A.R.T.H.U.R. ONLINE | SYSTEM READY")
			fmt.Println(strings.Repeat("=", 50))
			fmt.Println("Initializing Brain...")

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			arthur, cleanup, err := newAgent(ctx, cfg, store)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println("System Ready. Type 'exit' to quit.")
			fmt.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("You: ")
				if !scanner.Scan() {
					fmt.Println("\nSevering Link. Goodbye.")
					return scanner.Err()
				}

				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					continue
				}
				if exitCommands[strings.ToLower(input)] {
					fmt.Println("Severing Link. Goodbye.")
					return nil
				}

				start := time.Now()
				turnCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
				response, err := arthur.Think(turnCtx, input)
				cancel()

				if err != nil {
					// Turn-level failures never end the session.
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				fmt.Printf("Arthur (%.1fs): %s\n\n", time.Since(start).Seconds(), response)
			}
		},
	}
}
