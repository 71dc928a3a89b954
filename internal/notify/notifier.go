package notify

import (
	"context"
	"errors"
	"time"

	"github.com/ricmagno/KagomeReports-sub002/internal/engine"
)

// SMSNotifier renders alarm events and delivers them through a Channel.
type SMSNotifier struct {
	channel  Channel
	template *Template
}

// NewSMSNotifier constructs an SMS notifier.
func NewSMSNotifier(channel Channel, template *Template) (*SMSNotifier, error) {
	if channel == nil {
		return nil, errors.New("sms notifier: nil channel")
	}
	if template == nil {
		defaultTemplate, err := NewTemplate("")
		if err != nil {
			return nil, err
		}
		template = defaultTemplate
	}
	return &SMSNotifier{channel: channel, template: template}, nil
}

// Notify implements engine.Notifier.
func (n *SMSNotifier) Notify(ctx context.Context, event engine.Event) error {
	if n == nil || n.channel == nil {
		return errors.New("sms notifier: nil channel")
	}
	if len(event.Endpoints) == 0 {
		return nil
	}
	content, err := n.template.Render(TemplateData{
		Tag:   event.Tag,
		Limit: event.LimitLabel,
		Value: event.Value,
		Time:  event.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return n.channel.Send(ctx, event.Endpoints, content)
}
