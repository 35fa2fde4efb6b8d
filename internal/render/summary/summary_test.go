package summary

import "testing"

func TestFlatten(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"inline markup", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"block breaks become spaces", "<div>one</div><div>two</div>", "one two"},
		{"script dropped", `<p>ok</p><script>alert("x")</script>`, "ok"},
		{"entities decoded", "a &amp; b", "a & b"},
		{"whitespace collapsed", "  a \n\t b  ", "a b"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Flatten(tc.in); got != tc.want {
				t.Fatalf("Flatten(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 5); got != "ab..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abc", 5); got != "abc" {
		t.Fatalf("short input should pass through, got %q", got)
	}
	if got := Truncate("abcdef", 2); got != ".." {
		t.Fatalf("tiny budget = %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("zero budget = %q", got)
	}
}
