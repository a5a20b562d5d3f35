package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// NewInfoMessage builds an informational block message.
func NewInfoMessage(title, message string) slack.MsgOption {
	return slack.MsgOptionBlocks(
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, message, false, false), nil, nil),
	)
}

// NewAlertMessage builds an alert block message for a non-normal diagnosis,
// listing the individual sensor violations underneath.
func NewAlertMessage(diagnosis string, details []string) slack.MsgOption {
	body := fmt.Sprintf(":warning: *%s*", diagnosis)
	if len(details) > 0 {
		body += "\n• " + strings.Join(details, "\n• ")
	}
	return slack.MsgOptionBlocks(
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Aquaponics Alert", false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, body, false, false), nil, nil),
	)
}
