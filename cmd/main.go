package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v9"

	xiangxinai "github.com/xiangxinai/xiangxinai-go"
)

type config struct {
	APIKey     string        `env:"XIANGXINAI_API_KEY,required"`
	BaseURL    string        `env:"XIANGXINAI_BASE_URL" envDefault:"https://api.xiangxinai.cn/v1"`
	Model      string        `env:"XIANGXINAI_MODEL"`
	Timeout    time.Duration `env:"XIANGXINAI_TIMEOUT" envDefault:"30s"`
	MaxRetries uint64        `env:"XIANGXINAI_MAX_RETRIES" envDefault:"3"`
}

// Manual smoke test against a live guardrails deployment.
func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	client, err := xiangxinai.New(
		xiangxinai.WithAPIKey(cfg.APIKey),
		xiangxinai.WithBaseURL(cfg.BaseURL),
		xiangxinai.WithTimeout(cfg.Timeout),
		xiangxinai.WithMaxRetries(cfg.MaxRetries),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("Checking service health...")
	health, err := client.HealthCheck(ctx)
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	fmt.Printf("Health: %v\n", health)

	prompt := "Hello, this is a test message for the guardrails."
	fmt.Printf("\nChecking prompt: %q\n", prompt)

	var checkOpts []xiangxinai.CheckOption
	if cfg.Model != "" {
		checkOpts = append(checkOpts, xiangxinai.WithModel(cfg.Model))
	}

	result, err := client.CheckPrompt(ctx, prompt, checkOpts...)
	if err != nil {
		var authErr *xiangxinai.AuthenticationError
		if errors.As(err, &authErr) {
			log.Fatalf("Authentication failed, check XIANGXINAI_API_KEY: %v", err)
		}
		var rateLimitErr *xiangxinai.RateLimitError
		if errors.As(err, &rateLimitErr) {
			log.Fatalf("Rate limited: %v", err)
		}
		log.Fatalf("Check failed: %v", err)
	}

	fmt.Printf("ID:           %s\n", result.ID)
	fmt.Printf("Overall risk: %s\n", result.OverallRiskLevel)
	fmt.Printf("Action:       %s\n", result.SuggestAction)
	fmt.Printf("Safe:         %v\n", result.IsSafe())
	if categories := result.AllCategories(); len(categories) > 0 {
		fmt.Printf("Categories:   %v\n", categories)
	}
	if result.HasSubstitute() && result.SuggestAnswer != "" {
		fmt.Printf("Substitute:   %s\n", result.SuggestAnswer)
	}

	fmt.Println("\nChecking a conversation asynchronously...")
	userMsg, err := xiangxinai.NewMessage(xiangxinai.RoleUser, "Can you help me with my homework?")
	if err != nil {
		log.Fatalf("Failed to build message: %v", err)
	}
	assistantMsg, err := xiangxinai.NewMessage(xiangxinai.RoleAssistant, "Of course, which subject?")
	if err != nil {
		log.Fatalf("Failed to build message: %v", err)
	}

	asyncResult := <-client.CheckConversationAsync(ctx, []*xiangxinai.Message{userMsg, assistantMsg})
	if asyncResult.Err != nil {
		log.Fatalf("Conversation check failed: %v", asyncResult.Err)
	}
	fmt.Printf("Conversation risk: %s, action: %s\n",
		asyncResult.Response.OverallRiskLevel, asyncResult.Response.SuggestAction)

	fmt.Println("\nDone.")
}
