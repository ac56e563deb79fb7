package main

import (
	"context"
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github/itish2003/hrfaq/bootstrap"
	"github/itish2003/hrfaq/config"
	"github/itish2003/hrfaq/tui"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to YAML config file")
	logPath := flag.String("log", "hrfaq-chat.log", "File receiving log output while the UI runs")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The UI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	if envErr != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app, err := bootstrap.Build(ctx, cfg, prometheus.NewRegistry())
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("failed to build FAQ index: %v", err)
	}
	defer app.Close()

	app.StartWatcher(ctx)

	session := app.Chat.CreateSession()
	m := tui.New(ctx, app.Chat, session.ID, session.Messages())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
