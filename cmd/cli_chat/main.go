package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"companion-chat/internal/app"
	"companion-chat/internal/config"
	"companion-chat/internal/service"
)

const cliUserID = "cli_user"

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	deps, err := app.Build(ctx, cfg, nil, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Close()

	fmt.Println("===== Companion Chat =====")
	fmt.Printf("Provider: %s | emotion-aware: %v | support tools: %v\n", cfg.LLMProvider, cfg.EmotionAware, cfg.SupportToolsEnabled)
	fmt.Println("Type /exit to quit.")

	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "/exit" || line == "/quit" {
			return
		}

		turn, err := deps.Composer.Handle(ctx, cliUserID, line)
		if errors.Is(err, service.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			log.Printf("turn failed: %v", err)
			continue
		}
		fmt.Printf("Bot [%s]: %s\n", turn.Outcome, turn.Reply)
	}
}
