package ai

import (
	"fmt"
	"testing"
)

func TestLastMessages(t *testing.T) {
	history := make([]Message, 0, 15)
	for i := 0; i < 15; i++ {
		history = append(history, Message{Role: RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	kept := LastMessages(history, 10)
	if len(kept) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(kept))
	}
	if kept[0].Content != "m5" || kept[9].Content != "m14" {
		t.Fatalf("expected the newest window in original order, got %q..%q", kept[0].Content, kept[9].Content)
	}
}

func TestLastMessagesSkipsEmpty(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "  "},
		{Role: RoleUser, Content: "there"},
	}

	kept := LastMessages(history, 10)
	if len(kept) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(kept))
	}

	if got := LastMessages(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty result for nil history")
	}
}
