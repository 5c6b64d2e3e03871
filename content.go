package xiangxinai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Content is the tagged variant for message content: either plain text or an
// ordered list of typed parts for multimodal input. On the wire it is a JSON
// string or an array of part objects.
type Content interface {
	isContent()
}

// Text is plain text message content.
type Text string

func (Text) isContent() {}

// Parts is multimodal message content: an ordered list of text segments and
// image references.
type Parts []ContentPart

func (Parts) isContent() {}

const (
	partTypeText     = "text"
	partTypeImageURL = "image_url"
)

// ContentPart is one typed segment of multimodal content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference, either a remote URL or a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: partTypeText, Text: text}
}

// NewImageURLPart creates an image content part from a URL or data URL.
func NewImageURLPart(url string) ContentPart {
	return ContentPart{Type: partTypeImageURL, ImageURL: &ImageURL{URL: url}}
}

// MarshalJSON encodes the message with its content as either a plain JSON
// string or an array of parts.
func (m *Message) MarshalJSON() ([]byte, error) {
	var content any
	switch c := m.Content.(type) {
	case Text:
		content = string(c)
	case Parts:
		content = []ContentPart(c)
	case nil:
		content = ""
	default:
		return nil, fmt.Errorf("unsupported content type %T", m.Content)
	}

	return json.Marshal(struct {
		Role    Role `json:"role"`
		Content any  `json:"content"`
	}{Role: m.Role, Content: content})
}

// UnmarshalJSON decodes the content variant based on the JSON shape.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    Role            `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role

	trimmed := bytes.TrimSpace(raw.Content)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		m.Content = Text("")
	case trimmed[0] == '[':
		var parts Parts
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		m.Content = parts
	default:
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		m.Content = Text(text)
	}
	return nil
}

// maxImageSize caps images loaded from a path or URL.
const maxImageSize = 20 * 1024 * 1024

// encodeImagePart reads an image from a local path or an http(s) URL and
// wraps it into an image content part as a base64 data URL. A missing or
// unreadable local file is a ValidationError; a failed URL fetch is a generic
// error.
func (c *Client) encodeImagePart(ctx context.Context, image string) (ContentPart, error) {
	var data []byte

	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, image, nil)
		if err != nil {
			return ContentPart{}, fmt.Errorf("failed to encode image %s: %w", image, err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return ContentPart{}, fmt.Errorf("failed to encode image %s: %w", image, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return ContentPart{}, fmt.Errorf("failed to encode image %s: status %d", image, resp.StatusCode)
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
		if err != nil {
			return ContentPart{}, fmt.Errorf("failed to encode image %s: %w", image, err)
		}
	} else {
		var err error
		data, err = os.ReadFile(image)
		if err != nil {
			if os.IsNotExist(err) {
				return ContentPart{}, &ValidationError{Detail: fmt.Sprintf("image file not found: %s", image)}
			}
			return ContentPart{}, &ValidationError{Detail: fmt.Sprintf("cannot read image file %s: %v", image, err)}
		}
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return NewImageURLPart("data:image/jpeg;base64," + encoded), nil
}
