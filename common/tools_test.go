package common

import (
	"strings"
	"testing"
)

func TestStringToUUID5Stable(t *testing.T) {
	a := StringToUUID5("123456789")
	b := StringToUUID5("123456789")
	if a != b {
		t.Fatalf("same input produced %v and %v", a, b)
	}
	if a == StringToUUID5("987654321") {
		t.Fatal("distinct inputs collided")
	}
	if len(a) != 36 {
		t.Fatalf("unexpected uuid format: %v", a)
	}
}

func TestHostInAllowlist(t *testing.T) {
	allow := []string{"t.me", "example.org"}
	tests := []struct {
		url  string
		want bool
	}{
		{"https://t.me/somebot?start=x", true},
		{"https://T.ME/somebot", true},
		{"https://sub.example.org/page", true},
		{"https://example.org", true},
		{"https://evil-t.me.attacker.com/", false},
		{"https://notexample.org/", false},
		{"https://attacker.com/t.me", false},
		{"not a url", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HostInAllowlist(tt.url, allow); got != tt.want {
			t.Fatalf("%q: got %v, want %v", tt.url, got, tt.want)
		}
	}
	if HostInAllowlist("https://t.me/x", nil) {
		t.Fatal("empty allowlist should deny everything")
	}
}

func TestBuildDeepLink(t *testing.T) {
	got := BuildDeepLink("filegatebot", "verify-abc123")
	if got != "https://t.me/filegatebot?start=verify-abc123" {
		t.Fatalf("unexpected link: %v", got)
	}
	// start parameters are query-escaped
	got = BuildDeepLink("filegatebot", "verify a&b")
	if strings.ContainsAny(got[strings.Index(got, "start=")+6:], " &") {
		t.Fatalf("start parameter not escaped: %v", got)
	}
}

func TestDeduplicate(t *testing.T) {
	got := Deduplicate([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
