package audio

import (
	"testing"
	"time"
)

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		format  Format
		wantErr bool
	}{
		{Format{SampleRate: 22050, Channels: 1}, false},
		{Format{SampleRate: 48000, Channels: 2}, false},
		{Format{SampleRate: 100, Channels: 1}, true},
		{Format{SampleRate: 22050, Channels: 3}, true},
	}
	for _, tt := range tests {
		if err := tt.format.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	f := Format{SampleRate: 22050, Channels: 1}
	pcm := make([]byte, 22050*2)
	if got := f.Duration(pcm); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}
	if got := (Format{}).Duration(pcm); got != 0 {
		t.Errorf("zero format Duration() = %v, want 0", got)
	}
}
