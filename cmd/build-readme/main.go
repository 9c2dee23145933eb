package main

import (
	"fmt"
	"os"

	"hellabot/internal/api"
	"hellabot/internal/bot"
	"hellabot/internal/docs"
	"hellabot/internal/logger"
)

func main() {
	log := logger.New(logger.Options{Level: "warn", Pretty: true})

	// Descriptors never touch the API, so an unreachable base is fine.
	registry := bot.Commands(bot.Deps{Source: api.NewClient("http://localhost", 0, log), Log: log})

	if err := docs.UpdateReadme("README.md.tmpl", "README.md", registry.Descriptors()); err != nil {
		fmt.Fprintln(os.Stderr, "[ERR]", err)
		os.Exit(1)
	}
	fmt.Println("[INFO] README.md updated with current commands")
}
