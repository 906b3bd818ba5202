package util

import "testing"

func TestBrowserCommand(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"windows": "rundll32",
		"darwin":  "open",
		"linux":   "xdg-open",
		"freebsd": "xdg-open",
	}
	for goos, want := range cases {
		name, args := browserCommand(goos, "http://localhost:5000")
		if name != want {
			t.Fatalf("%s: command=%q, want %q", goos, name, want)
		}
		if args[len(args)-1] != "http://localhost:5000" {
			t.Fatalf("%s: url not last argument: %v", goos, args)
		}
	}
	if got := LocalURL(8080); got != "http://localhost:8080" {
		t.Fatalf("LocalURL=%q", got)
	}
}
