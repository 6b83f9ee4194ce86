package slack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/theopenlane/httpsling"
)

// Block Kit element and text types used by finding notifications
const (
	blockHeader   = "header"
	blockSection  = "section"
	blockDivider  = "divider"
	textPlain     = "plain_text"
	textMarkdown  = "mrkdwn"
	fieldTemplate = "*%s*\n%s"
)

// Message is the webhook payload; Text is shown where blocks cannot be rendered
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a single Block Kit layout block
type Block struct {
	Type   string       `json:"type"`
	Text   *TextObject  `json:"text,omitempty"`
	Fields []TextObject `json:"fields,omitempty"`
}

// TextObject is a Block Kit text element
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func headerBlock(text string) Block {
	return Block{Type: blockHeader, Text: &TextObject{Type: textPlain, Text: text}}
}

func sectionBlock(text string, fields ...TextObject) Block {
	return Block{Type: blockSection, Text: &TextObject{Type: textMarkdown, Text: text}, Fields: fields}
}

func dividerBlock() Block {
	return Block{Type: blockDivider}
}

// field renders a bold label above its value
func field(label, value string) TextObject {
	return TextObject{Type: textMarkdown, Text: fmt.Sprintf(fieldTemplate, label, value)}
}

// Send posts msg to the webhook; Slack answers 200 on acceptance and anything else is an error
func (c *Client) Send(ctx context.Context, msg Message) error {
	resp, err := httpsling.MustNew(
		httpsling.URL(c.webhookURL),
		httpsling.Post(),
		httpsling.JSONBody(msg),
		httpsling.WithHTTPClient(c.httpClient),
	).SendWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return nil
}
