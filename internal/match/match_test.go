package match

import (
	"testing"

	"github.com/slack-go/slack"
)

func TestAny(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		value    string
		want     bool
	}{
		{"nil patterns match nothing", nil, "anything", false},
		{"empty patterns match nothing", []string{}, "anything", false},
		{"single pattern match", []string{"eng-*"}, "eng-backend", true},
		{"single pattern no match", []string{"eng-*"}, "marketing", false},
		{"middle pattern matches", []string{"eng-*", "ai-*", "marketing"}, "ai-team", true},
		{"none match", []string{"eng-*", "ai-*"}, "random", false},
		{"case-insensitive", []string{"ENG-*"}, "eng-backend", true},
		{"channel id prefix", []string{"C03*", "C04*"}, "C03TSU00NK1", true},
		{"wildcard matches empty value", []string{"*"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Any(tt.patterns, tt.value); got != tt.want {
				t.Errorf("Any(%v, %q) = %v, want %v", tt.patterns, tt.value, got, tt.want)
			}
		})
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{"exact", "engineering", "engineering", true},
		{"exact case-insensitive", "Engineering", "engineering", true},
		{"no match", "engineering", "marketing", false},
		{"wildcard suffix", "eng-*", "eng-backend", true},
		{"wildcard prefix", "*-deploys", "staging-deploys", true},
		{"wildcard middle", "eng-*-team", "eng-backend-team", true},
		{"single char wildcard", "eng-?", "eng-a", true},
		{"single char wildcard too long", "eng-?", "eng-ab", false},
		{"character class", "eng-[abc]", "eng-b", true},
		{"empty pattern", "", "anything", false},
		{"empty pattern empty value", "", "", true},
		{"invalid pattern matches nothing", "[", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pattern(tt.pattern, tt.value); got != tt.want {
				t.Errorf("Pattern(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestChannels(t *testing.T) {
	chs := []slack.Channel{
		namedChannel("C1", "eng-backend"),
		namedChannel("C2", "eng-frontend"),
		namedChannel("C3", "random"),
		namedChannel("C4", "_app_bot"),
		namedChannel("C5", "ai-team"),
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string // channel IDs, in order
	}{
		{"no filters keeps all", nil, nil, []string{"C1", "C2", "C3", "C4", "C5"}},
		{"include glob", []string{"eng-*"}, nil, []string{"C1", "C2"}},
		{"exclude glob", nil, []string{"_app_*"}, []string{"C1", "C2", "C3", "C5"}},
		{"exclude wins over include", []string{"eng-*"}, []string{"eng-backend"}, []string{"C2"}},
		{"include by id", []string{"eng-*", "C3"}, nil, []string{"C1", "C2", "C3"}},
		{"exclude by id", nil, []string{"C1", "C2"}, []string{"C3", "C4", "C5"}},
		{"exclude everything", nil, []string{"*"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Channels(chs, tt.include, tt.exclude)
			if len(got) != len(tt.want) {
				t.Fatalf("Channels() kept %d channels, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("Channels()[%d] = %q, want %q", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func namedChannel(id, name string) slack.Channel {
	ch := slack.Channel{}
	ch.ID = id
	ch.Name = name
	return ch
}
