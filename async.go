package xiangxinai

import "context"

// CheckResult is the outcome of an asynchronous check. Exactly one of
// Response and Err is set.
type CheckResult struct {
	Response *GuardrailResponse
	Err      error
}

// async runs a check on its own goroutine and delivers the single result on a
// buffered channel, so backoff delays never block the caller.
func (c *Client) async(call func() (*GuardrailResponse, error)) <-chan CheckResult {
	ch := make(chan CheckResult, 1)
	go func() {
		defer close(ch)
		resp, err := call()
		ch <- CheckResult{Response: resp, Err: err}
	}()
	return ch
}

// CheckPromptAsync is the non-blocking variant of CheckPrompt. It returns
// immediately; receive from the channel to get the result:
//
//	result := <-client.CheckPromptAsync(ctx, "User question")
//	if result.Err != nil {
//		return result.Err
//	}
//	fmt.Println(result.Response.SuggestAction)
func (c *Client) CheckPromptAsync(ctx context.Context, content string, opts ...CheckOption) <-chan CheckResult {
	return c.async(func() (*GuardrailResponse, error) {
		return c.CheckPrompt(ctx, content, opts...)
	})
}

// CheckResponseCtxAsync is the non-blocking variant of CheckResponseCtx.
func (c *Client) CheckResponseCtxAsync(ctx context.Context, prompt, response string, opts ...CheckOption) <-chan CheckResult {
	return c.async(func() (*GuardrailResponse, error) {
		return c.CheckResponseCtx(ctx, prompt, response, opts...)
	})
}

// CheckConversationAsync is the non-blocking variant of CheckConversation.
func (c *Client) CheckConversationAsync(ctx context.Context, messages []*Message, opts ...CheckOption) <-chan CheckResult {
	return c.async(func() (*GuardrailResponse, error) {
		return c.CheckConversation(ctx, messages, opts...)
	})
}

// CheckPromptImageAsync is the non-blocking variant of CheckPromptImage.
func (c *Client) CheckPromptImageAsync(ctx context.Context, prompt, image string, opts ...CheckOption) <-chan CheckResult {
	return c.async(func() (*GuardrailResponse, error) {
		return c.CheckPromptImage(ctx, prompt, image, opts...)
	})
}

// CheckPromptImagesAsync is the non-blocking variant of CheckPromptImages.
func (c *Client) CheckPromptImagesAsync(ctx context.Context, prompt string, images []string, opts ...CheckOption) <-chan CheckResult {
	return c.async(func() (*GuardrailResponse, error) {
		return c.CheckPromptImages(ctx, prompt, images, opts...)
	})
}
