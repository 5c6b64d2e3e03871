package xiangxinai_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	xiangxinai "github.com/xiangxinai/xiangxinai-go"
)

// Example demonstrates how to create a client and check a user prompt.
func Example() {
	// Create a new client with your API key
	client, err := xiangxinai.New(xiangxinai.WithAPIKey("your-api-key-here"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	result, err := client.CheckPrompt(ctx, "I want to learn programming")
	if err != nil {
		log.Printf("Error checking prompt: %v", err)
		return
	}

	fmt.Printf("Risk: %s, Action: %s\n", result.OverallRiskLevel, result.SuggestAction)
	if result.HasSubstitute() {
		fmt.Printf("Suggested answer: %s\n", result.SuggestAnswer)
	}
}

// ExampleClient_CheckConversation demonstrates checking a full conversation.
func ExampleClient_CheckConversation() {
	client, err := xiangxinai.New(xiangxinai.WithAPIKey("your-api-key-here"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	userMsg, err := xiangxinai.NewMessage(xiangxinai.RoleUser, "How do I reset my password?")
	if err != nil {
		log.Fatal(err)
	}
	assistantMsg, err := xiangxinai.NewMessage(xiangxinai.RoleAssistant, "Open settings and choose reset.")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	result, err := client.CheckConversation(ctx,
		[]*xiangxinai.Message{userMsg, assistantMsg},
		xiangxinai.WithUserID("user-12345"),
	)
	if err != nil {
		var rateLimitErr *xiangxinai.RateLimitError
		if errors.As(err, &rateLimitErr) {
			log.Printf("Rate limited: %v", err)
			return
		}
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("Overall risk: %s\n", result.OverallRiskLevel)
	for _, category := range result.AllCategories() {
		fmt.Printf("  category: %s\n", category)
	}
}

// ExampleClient_CheckPromptImage demonstrates a multimodal check with a local
// image.
func ExampleClient_CheckPromptImage() {
	client, err := xiangxinai.New(xiangxinai.WithAPIKey("your-api-key-here"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	result, err := client.CheckPromptImage(ctx, "Is this image safe?", "/path/to/image.jpg")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	if result.IsBlocked() {
		fmt.Println("image rejected")
	}
}

// ExampleClient_CheckPromptAsync demonstrates the channel based variant.
func ExampleClient_CheckPromptAsync() {
	client, err := xiangxinai.New(xiangxinai.WithAPIKey("your-api-key-here"))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx := context.Background()
	result := <-client.CheckPromptAsync(ctx, "Tell me about the weather")
	if result.Err != nil {
		log.Printf("Error: %v", result.Err)
		return
	}

	fmt.Printf("Safe: %v\n", result.Response.IsSafe())
}
