package bot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		trigger string
		want    Intent
	}{
		{"start", "/start", "", Intent{Kind: IntentStart, Command: "/start"}},
		{"start with payload", "/start ref42", "", Intent{Kind: IntentStart, Command: "/start"}},
		{"custom trigger", "hello bot", "hello bot", Intent{Kind: IntentStart, Command: "hello"}},
		{"default trigger ignored when custom set", "/start", "/go", Intent{Kind: IntentUnknown, Command: "/start"}},
		{"addcode", "/addcode HELLO Hi there", "", Intent{Kind: IntentAddCode, Command: "/addcode", Code: "HELLO", Response: "Hi there"}},
		{"addcode collapses whitespace", "/addcode  K   a \t b  ", "", Intent{Kind: IntentAddCode, Command: "/addcode", Code: "K", Response: "a b"}},
		{"addcode bot suffix", "/addcode@code_bot K v", "", Intent{Kind: IntentAddCode, Command: "/addcode", Code: "K", Response: "v"}},
		{"addcode single token", "/addcode K", "", Intent{Kind: IntentAddCode, Command: "/addcode", Code: "K"}},
		{"addcode bare", "/addcode", "", Intent{Kind: IntentAddCode, Command: "/addcode"}},
		{"deletecode", "/deletecode K extra", "", Intent{Kind: IntentDeleteCode, Command: "/deletecode", Code: "K"}},
		{"deletecode bare", "/deletecode", "", Intent{Kind: IntentDeleteCode, Command: "/deletecode"}},
		{"listcodes", "/listcodes", "", Intent{Kind: IntentListCodes, Command: "/listcodes"}},
		{"help", "/help", "", Intent{Kind: IntentHelp, Command: "/help"}},
		{"stats", "/stats", "", Intent{Kind: IntentStats, Command: "/stats"}},
		{"unknown command", "/frobnicate now", "", Intent{Kind: IntentUnknown, Command: "/frobnicate"}},
		{"command prefix is not a command", "/addcodes X", "", Intent{Kind: IntentUnknown, Command: "/addcodes"}},
		{"lookup", "HELLO", "", Intent{Kind: IntentLookup, Text: "HELLO"}},
		{"lookup keeps inner spaces", "  two  words ", "", Intent{Kind: IntentLookup, Text: "two  words"}},
		{"hi is ordinary text", "hi", "", Intent{Kind: IntentLookup, Text: "hi"}},
		{"lone slash", "/", "", Intent{Kind: IntentLookup, Text: "/"}},
		{"empty", "   ", "", Intent{Kind: IntentLookup}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, tt.trigger)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestIntentKindAdminOnly(t *testing.T) {
	admin := map[IntentKind]bool{
		IntentAddCode:    true,
		IntentDeleteCode: true,
		IntentListCodes:  true,
		IntentStats:      true,
	}
	for k := IntentLookup; k <= IntentUnknown; k++ {
		if got := k.AdminOnly(); got != admin[k] {
			t.Errorf("%s.AdminOnly() = %v, want %v", k, got, admin[k])
		}
	}
}
