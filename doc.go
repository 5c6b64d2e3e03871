// Package xiangxinai provides the official Go SDK for the Xiangxin AI
// Guardrails API.
//
// Xiangxin AI Guardrails is a context-aware AI safety service based on LLM
// classification. Instead of scoring each message in isolation, it understands
// the conversation as a whole and reports per-dimension risk (compliance,
// security, data leak), an overall risk level, and a suggested action.
//
// # Quick Start
//
// You'll need an API key from the Xiangxin AI console.
//
//	import "github.com/xiangxinai/xiangxinai-go"
//
//	// Create a client
//	client, err := xiangxinai.New(xiangxinai.WithAPIKey("your-api-key"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Check a user prompt
//	result, err := client.CheckPrompt(ctx, "I want to learn programming")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if result.IsSafe() {
//		fmt.Println("pass")
//	} else if result.HasSubstitute() {
//		fmt.Println("use instead:", result.SuggestAnswer)
//	}
//
// # Check Methods
//
// The SDK mirrors the service's detection endpoints:
//
//   - CheckPrompt: check a single user input
//   - CheckResponseCtx: check a model output in the context of its prompt
//   - CheckConversation: check a whole multi-turn conversation
//   - CheckPromptImage / CheckPromptImages: multimodal checks combining a
//     text prompt with one or more images (local paths or http(s) URLs)
//   - HealthCheck / Models: service diagnostics
//
// Every method has a non-blocking *Async variant returning a channel that
// delivers a single CheckResult:
//
//	result := <-client.CheckPromptAsync(ctx, "User question")
//	if result.Err == nil {
//		fmt.Println(result.Response.OverallRiskLevel)
//	}
//
// # Empty Input
//
// Blank input (an empty prompt, or a conversation whose messages are all
// blank) is answered locally with a fixed safe response whose ID is
// SafeResponseID; no request is sent. An empty message list or a nil message
// element is a ValidationError instead.
//
// # Error Handling and Retries
//
// Transport failures and generic API errors are retried with a fixed one
// second delay; HTTP 429 is retried with exponential backoff. Authentication
// (401) and validation (422) failures are never retried. After retries are
// exhausted the call fails with a typed error:
//
//	_, err := client.CheckPrompt(ctx, content)
//	var rateLimitErr *xiangxinai.RateLimitError
//	if errors.As(err, &rateLimitErr) {
//		// back off at the application level
//	}
//
// Retry count and timeout are configurable:
//
//	client, err := xiangxinai.New(
//		xiangxinai.WithAPIKey("your-api-key"),
//		xiangxinai.WithTimeout(60*time.Second),
//		xiangxinai.WithMaxRetries(5),
//	)
//
// # Concurrency
//
// A Client is safe for concurrent use and holds a pooled HTTP transport.
// Create one client and share it; call Close (or CloseOnExit) when done so
// pooled connections are released.
//
// For more information, visit: https://docs.xiangxinai.cn
package xiangxinai
