package message

import "testing"

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "hello")
	if msg.ID == "" {
		t.Fatal("expected generated id")
	}
	if msg.Role != RoleUser || msg.Text() != "hello" {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if msg.Metadata == nil {
		t.Fatal("metadata should be initialised")
	}
}

func TestCloneIsDeep(t *testing.T) {
	msg := NewMessage(RoleAssistant, "answer")
	msg.Metadata["k"] = "v"

	cloned := Clone(msg)
	cloned.Metadata["k"] = "changed"
	if msg.Metadata["k"] != "v" {
		t.Fatal("clone shares metadata with original")
	}
	if Clone(nil) != nil {
		t.Fatal("clone of nil should be nil")
	}
}

func TestSplit(t *testing.T) {
	msgs := []*Message{
		NewMessage(RoleSystem, "be brief"),
		nil,
		NewMessage(RoleUser, "question"),
		NewMessage(RoleSystem, ""),
	}
	system, turns := Split(msgs)
	if len(system) != 1 || system[0] != "be brief" {
		t.Fatalf("unexpected system prompts: %v", system)
	}
	if len(turns) != 1 || turns[0].Text() != "question" {
		t.Fatalf("unexpected turns: %v", turns)
	}
	var nilMsg *Message
	if nilMsg.Text() != "" {
		t.Fatal("nil message text should be empty")
	}
}
