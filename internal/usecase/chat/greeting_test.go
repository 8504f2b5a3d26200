package chat

import "testing"

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"hello", true},
		{"Hello!", true},
		{"  hi?  ", true},
		{"HEY.", true},
		{"hii", true},
		{"How are you", true},
		{"how are you?!", true},
		{"good morning", false},
		{"hello there", false},
		{"what are your hours", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := IsGreeting(tt.message); got != tt.want {
			t.Errorf("IsGreeting(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
