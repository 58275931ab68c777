package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email_1"}, nil
}

func TestRender_PreviewData(t *testing.T) {
	for name, data := range PreviewData {
		html, err := Render(name, data)
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		for _, v := range data {
			if !strings.Contains(html, v) {
				t.Fatalf("render %s: missing %q", name, v)
			}
		}
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	if _, err := Render("missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestSendMemoryPublishedEmail(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	client := NewClientWithSender(sender, "", &logger)

	err := client.SendMemoryPublishedEmail(context.Background(), "a@example.com", "", "id-1", "hello...")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	req := sender.sent[0]
	if req.To[0] != "a@example.com" || req.From == "" {
		t.Fatalf("unexpected request %+v", req)
	}
	if !strings.Contains(req.Html, "Hi there") || !strings.Contains(req.Html, "hello...") {
		t.Fatalf("unexpected body %q", req.Html)
	}
}

func TestSendEmail_ProviderError(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClientWithSender(&fakeSender{err: errors.New("rate limited")}, "x@example.com", &logger)

	err := client.SendMemoryPublishedEmail(context.Background(), "a@example.com", "Ann", "id-1", "hello...")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected provider error, got %v", err)
	}
}
