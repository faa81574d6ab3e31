package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mitra/internal/app"
	"mitra/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:     "mitra",
		Short:   "Mitra - an AI wellness companion for your terminal",
		Long:    "Mitra is a private, on-device wellness companion: chat, journal, guided breathing and mood trends.\n\nRun without arguments to start. Set MITRA_API_KEY for real model replies; without a key Mitra runs in mock mode.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				// Keyless installs still work end to end.
				cfg.APIKey = "mock"
			}

			root := cfg.Root()
			logger := app.NewFileLogger(root)
			client := app.NewGeminiClient(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.MaxTokens)

			sessions, err := app.OpenSessionStore(cfg)
			if err != nil {
				return err
			}
			defer sessions.Close()

			a := &tui.App{
				Config:     cfg,
				ConfigPath: app.DefaultConfigPath(),
				Lang:       cfg.Lang(),
				Model:      client,
				Log:        logger,
				Sessions:   sessions,
				Profiles:   app.NewProfileStore(root),
				Journal:    app.NewJournalStore(root),
				Memory:     app.NewMemoryStore(root),
			}

			logger.Info("starting", map[string]interface{}{"version": version, "storage": cfg.Storage, "mock": client.Mock()})
			p := tea.NewProgram(tui.NewRoot(a), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	var resetForce bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all local data: profile, chats, journal, moods and memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			root := cfg.Root()

			if !resetForce {
				fmt.Printf("This permanently deletes everything under %s.\nType 'reset' to confirm: ", root)
				reader := bufio.NewReader(os.Stdin)
				line, _ := reader.ReadString('\n')
				if strings.TrimSpace(line) != "reset" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			for _, name := range []string{
				"profile.json", "sessions.json", "active",
				"journal.json", "moods.json", "memory.json",
				"mitra.db", "mitra.db-wal", "mitra.db-shm", "mitra.log",
			} {
				if err := os.Remove(filepath.Join(root, name)); err != nil && !os.IsNotExist(err) {
					return err
				}
			}
			fmt.Println("All local data removed.")
			return nil
		},
	}
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip the confirmation prompt")
	root.AddCommand(resetCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
