package voice

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		transcript string
		want       Command
	}{
		{"please like this person", CommandLike},
		{"Like!", CommandLike},
		{"yes", CommandLike},
		{"I'm interested", CommandLike},
		{"dislike", CommandPass},
		{"next one please", CommandPass},
		{"no thanks", CommandPass},
		{"pass", CommandPass},
		{"send a message", CommandMessage},
		{"let's chat", CommandMessage},
		{"read their profile", CommandRead},
		{"read", CommandRead},
		{"I liked her", CommandLike},
		{"liking this one", CommandLike},
		{"she likes hiking", CommandLike},
		{"open messages", CommandMessage},
		{"start chatting", CommandMessage},
		{"we chatted", CommandMessage},
		{"reading now", CommandRead},
		{"passing", CommandPass},
		{"disliked", CommandPass},
		{"likely not", CommandNone},
		{"he nodded", CommandNone},
		{"skip this one", CommandNone},
		{"nothing to see", CommandNone},
		{"", CommandNone},
		{"hello there", CommandNone},
		// categories are checked in order
		{"like or pass", CommandLike},
		{"no, message them", CommandPass},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			if got := Classify(tt.transcript); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.transcript, got, tt.want)
			}
		})
	}
}

func TestCommandTitle(t *testing.T) {
	tests := map[Command]string{
		CommandLike:    "Like",
		CommandPass:    "Pass",
		CommandMessage: "Message",
		CommandRead:    "Read",
		CommandNone:    "None",
	}
	for cmd, want := range tests {
		if got := cmd.Title(); got != want {
			t.Errorf("%s.Title() = %q, want %q", cmd, got, want)
		}
	}
}
