package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
	"github.com/ricmagno/KagomeReports-sub002/internal/engine"
)

type recordingChannel struct {
	recipients []string
	message    string
	calls      int
	err        error
}

func (c *recordingChannel) Send(_ context.Context, recipients []string, message string) error {
	c.calls++
	c.recipients = recipients
	c.message = message
	return c.err
}

func testEvent() engine.Event {
	return engine.Event{
		ConfigID:   "cfg-1",
		Tag:        "Line1.Temp",
		Limit:      alerts.LimitHigh,
		LimitLabel: "High (H)",
		Value:      "95.2",
		Endpoints:  []string{"+5511999990000"},
		At:         time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestSMSNotifierRendersAndSends(t *testing.T) {
	channel := &recordingChannel{}
	notifier, err := NewSMSNotifier(channel, nil)
	if err != nil {
		t.Fatalf("new sms notifier: %v", err)
	}

	if err := notifier.Notify(context.Background(), testEvent()); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if channel.calls != 1 {
		t.Fatalf("expected one send, got %d", channel.calls)
	}
	if len(channel.recipients) != 1 || channel.recipients[0] != "+5511999990000" {
		t.Fatalf("unexpected recipients %v", channel.recipients)
	}
	for _, want := range []string{
		"[Alarm Raised]",
		"Tag: Line1.Temp",
		"Limit: High (H)",
		"Value: 95.2",
		"Time: 2026-08-25T12:00:00Z",
	} {
		if !strings.Contains(channel.message, want) {
			t.Fatalf("message missing %q:\n%s", want, channel.message)
		}
	}
}

func TestSMSNotifierSkipsEmptyEndpoints(t *testing.T) {
	channel := &recordingChannel{}
	notifier, err := NewSMSNotifier(channel, nil)
	if err != nil {
		t.Fatalf("new sms notifier: %v", err)
	}

	event := testEvent()
	event.Endpoints = nil
	if err := notifier.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if channel.calls != 0 {
		t.Fatalf("expected no send for empty endpoints, got %d", channel.calls)
	}
}

func TestSMSNotifierUsesCustomTemplate(t *testing.T) {
	channel := &recordingChannel{}
	tpl, err := NewTemplate("ALARM {{.Tag}} {{.Limit}}")
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	notifier, err := NewSMSNotifier(channel, tpl)
	if err != nil {
		t.Fatalf("new sms notifier: %v", err)
	}

	if err := notifier.Notify(context.Background(), testEvent()); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if channel.message != "ALARM Line1.Temp High (H)" {
		t.Fatalf("unexpected message %q", channel.message)
	}
}

func TestMultiNotifierFansOutAndJoinsErrors(t *testing.T) {
	okChannel := &recordingChannel{}
	okNotifier, err := NewSMSNotifier(okChannel, nil)
	if err != nil {
		t.Fatalf("new sms notifier: %v", err)
	}
	badChannel := &recordingChannel{err: errors.New("gateway down")}
	badNotifier, err := NewSMSNotifier(badChannel, nil)
	if err != nil {
		t.Fatalf("new sms notifier: %v", err)
	}

	multi := NewMultiNotifier(okNotifier, badNotifier)
	err = multi.Notify(context.Background(), testEvent())
	if err == nil {
		t.Fatalf("expected joined error from failing notifier")
	}
	if okChannel.calls != 1 || badChannel.calls != 1 {
		t.Fatalf("expected both notifiers invoked, got %d and %d", okChannel.calls, badChannel.calls)
	}
}
