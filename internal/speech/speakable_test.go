package speech

import "testing"

func TestSpeakable(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "plain paragraph",
			markdown: "Adventure seeker who loves painting sunsets",
			want:     "Adventure seeker who loves painting sunsets.",
		},
		{
			name:     "emphasis and links",
			markdown: "Loves **hiking** and [coffee](https://example.com)!",
			want:     "Loves hiking and coffee!",
		},
		{
			name:     "heading and list",
			markdown: "# Interests\n\n- Art\n- Travel",
			want:     "Interests. Art. Travel.",
		},
		{
			name:     "code is dropped",
			markdown: "Hello\n\n```\nfmt.Println()\n```\n",
			want:     "Hello.",
		},
		{
			name:     "empty",
			markdown: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Speakable(tt.markdown); got != tt.want {
				t.Errorf("Speakable() = %q, want %q", got, tt.want)
			}
		})
	}
}
