package models

import (
	"testing"
)

func TestDisplayName(t *testing.T) {
	tc := []struct {
		name string
		info SpeakerInfo
		want string
	}{
		{name: "lower case room", info: SpeakerInfo{Name: "living room", IP: "192.168.1.10"}, want: `Living Room ("192.168.1.10")`},
		{name: "mixed case room", info: SpeakerInfo{Name: "KITCHEN", IP: "10.0.0.2"}, want: `Kitchen ("10.0.0.2")`},
		{name: "empty ip", info: SpeakerInfo{Name: "office"}, want: `Office ("")`},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.info); got != tt.want {
				t.Errorf("DisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueueItemLabel(t *testing.T) {
	item := QueueItem{Creator: "Nina Simone", Title: "Sinnerman", URI: "x-file:1"}
	if got := item.Label(); got != "Nina Simone - Sinnerman" {
		t.Errorf("Label() = %v", got)
	}
}

func TestSashes(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		sashes := []Sash{{Index: 0, X: 240, Y: 2}, {Index: 1, X: 560, Y: 2}}
		encoded := FormatSashes(sashes)
		if encoded != "0:240:2,1:560:2" {
			t.Fatalf("FormatSashes() = %v", encoded)
		}

		decoded, err := ParseSashes(encoded)
		if err != nil {
			t.Fatalf("ParseSashes() error = %v", err)
		}
		if len(decoded) != len(sashes) {
			t.Fatalf("expected %d sashes, got %d", len(sashes), len(decoded))
		}
		for i := range sashes {
			if decoded[i] != sashes[i] {
				t.Errorf("sash %d = %+v, want %+v", i, decoded[i], sashes[i])
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		decoded, err := ParseSashes("")
		if err != nil || decoded != nil {
			t.Errorf("expected nil, nil; got %v, %v", decoded, err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, in := range []string{"0:1", "0:a:2", "0:1:2,"} {
			if _, err := ParseSashes(in); err == nil {
				t.Errorf("expected error for %q", in)
			}
		}
	})
}
