package model

import "testing"

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blue", "blue"},
		{"  RED wallet ", "red wallet"},
		{"", ""},
		{"already", "already"},
	}

	for _, tt := range tests {
		if got := NormalizeAnswer(tt.in); got != tt.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLostItem_HasSecurityQuestion(t *testing.T) {
	item := &LostItem{}
	if item.HasSecurityQuestion() {
		t.Error("item without question should not be gated")
	}

	item.SecurityQuestion = &SecurityQuestion{}
	if item.HasSecurityQuestion() {
		t.Error("empty question should not gate disclosure")
	}

	item.SecurityQuestion = &SecurityQuestion{Question: "Colour?", Answer: "blue"}
	if !item.HasSecurityQuestion() {
		t.Error("item with question should be gated")
	}
}

func TestLostItem_IsOwnedBy(t *testing.T) {
	owner := string([]byte("01HZY0WNER"))
	item := &LostItem{OwnerID: "01HZY0WNER"}

	if !item.IsOwnedBy(owner) {
		t.Error("ids with equal value should match")
	}
	if item.IsOwnedBy("someone-else") {
		t.Error("different ids should not match")
	}
	if (&LostItem{}).IsOwnedBy("") {
		t.Error("empty ids never own anything")
	}
}

func TestLostItem_CloneIsDeep(t *testing.T) {
	item := &LostItem{
		Title:            "Wallet",
		SecurityQuestion: &SecurityQuestion{Question: "Colour?", Answer: "blue"},
	}

	c := item.Clone()
	c.Title = "Keys"
	c.SecurityQuestion.Answer = "red"

	if item.Title != "Wallet" {
		t.Error("clone changed original title")
	}
	if item.SecurityQuestion.Answer != "blue" {
		t.Error("clone shares security question with original")
	}
}
