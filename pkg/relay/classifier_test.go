package relay

import (
	"testing"

	"ai-concierge-be/internal/entity"
)

func TestClassifyDocumentEmailSent(t *testing.T) {
	c := NewClassifier()

	n, err := c.Classify(&entity.ChatEvent{
		SessionId: "S1",
		Status:    "click",
		Question:  "document_email_sent",
		Answer:    "Acme / Taro Yamada / taro@example.com",
		Ordinal:   0,
	})
	if err != nil {
		t.Fatalf("Classify() = %v", err)
	}
	if n == nil {
		t.Fatal("Classify() returned nil for recognized question")
	}

	if n.Kind != KindDownloadSucceeded {
		t.Errorf("Kind = %q, want %q", n.Kind, KindDownloadSucceeded)
	}
	if n.Company != "Acme" || n.Name != "Taro Yamada" || n.Email != "taro@example.com" {
		t.Errorf("contact fields = (%q, %q, %q)", n.Company, n.Name, n.Email)
	}
	if n.SessionID != "S1" {
		t.Errorf("SessionID = %q", n.SessionID)
	}
	if n.Malformed {
		t.Error("well-formed answer marked malformed")
	}
}

func TestClassifyDocumentEmailFailed(t *testing.T) {
	c := NewClassifier()

	n, err := c.Classify(&entity.ChatEvent{
		SessionId: "S2",
		Question:  "document_email_failed",
		Answer:    "Acme / Taro Yamada / taro@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != KindDownloadFailed {
		t.Errorf("Kind = %q, want %q", n.Kind, KindDownloadFailed)
	}
}

func TestClassifyUnrecognizedQuestionIsNoOp(t *testing.T) {
	c := NewClassifier()

	n, err := c.Classify(&entity.ChatEvent{
		SessionId: "S1",
		Question:  "what_is_your_budget",
		Answer:    "around 10k",
	})
	if err != nil {
		t.Fatalf("Classify() = %v, want nil error for unrecognized question", err)
	}
	if n != nil {
		t.Errorf("Classify() = %+v, want nil notification", n)
	}
}

func TestClassifyMalformedAnswerSubstitutesUnknown(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		wantCompany string
		wantName    string
		wantEmail   string
	}{
		{
			name:        "missing email",
			answer:      "Acme / Taro Yamada",
			wantCompany: "Acme",
			wantName:    "Taro Yamada",
			wantEmail:   "unknown",
		},
		{
			name:        "company only",
			answer:      "Acme",
			wantCompany: "Acme",
			wantName:    "unknown",
			wantEmail:   "unknown",
		},
		{
			name:        "empty answer",
			answer:      "",
			wantCompany: "unknown",
			wantName:    "unknown",
			wantEmail:   "unknown",
		},
		{
			name:        "blank middle segment",
			answer:      "Acme /  / taro@example.com",
			wantCompany: "Acme",
			wantName:    "unknown",
			wantEmail:   "taro@example.com",
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := c.Classify(&entity.ChatEvent{
				SessionId: "S1",
				Question:  "document_email_sent",
				Answer:    tt.answer,
			})
			if err != nil {
				t.Fatalf("Classify() = %v, malformed answers must still notify", err)
			}
			if n == nil {
				t.Fatal("Classify() = nil, malformed answers must still notify")
			}
			if !n.Malformed {
				t.Error("Malformed flag not set")
			}
			if n.Company != tt.wantCompany || n.Name != tt.wantName || n.Email != tt.wantEmail {
				t.Errorf("contact fields = (%q, %q, %q), want (%q, %q, %q)",
					n.Company, n.Name, n.Email, tt.wantCompany, tt.wantName, tt.wantEmail)
			}
		})
	}
}

func TestRegisterCustomHandler(t *testing.T) {
	c := NewClassifier()
	c.Register("demo_requested", func(event *entity.ChatEvent) (*Notification, error) {
		return &Notification{
			Kind:      Kind("demo_requested"),
			SessionID: event.SessionId,
			Question:  event.Question,
			Sequence:  event.Ordinal,
		}, nil
	})

	n, err := c.Classify(&entity.ChatEvent{SessionId: "S3", Question: "demo_requested", Ordinal: 2})
	if err != nil {
		t.Fatal(err)
	}
	if n == nil || n.Kind != Kind("demo_requested") || n.Sequence != 2 {
		t.Errorf("custom handler result = %+v", n)
	}
}
