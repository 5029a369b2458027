package sanitize

import (
	"reflect"
	"testing"
)

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "trims whitespace", in: "  Pancakes  ", want: "Pancakes"},
		{name: "strips control characters", in: "Pan\x00cakes\x07", want: "Pancakes"},
		{name: "newlines collapse to spaces", in: "one\ntwo", want: "one two"},
		{name: "unescapes entities", in: "Mac &amp; Cheese", want: "Mac & Cheese"},
		{name: "number coerces", in: float64(4), want: "4"},
		{name: "nil yields empty", in: nil, want: ""},
		{name: "object yields empty", in: map[string]any{"a": 1}, want: ""},
		{name: "tags stripped", in: "<b>bold</b> flour", want: "bold flour"},
		{name: "script element removed with its contents", in: "1 cup flour<script>alert(1)</script>", want: "1 cup flour"},
		{name: "stray closing tag dropped", in: "1 cup flour</script>", want: "1 cup flour"},
		{name: "entity-encoded markup does not come back live", in: "&lt;script&gt;alert(1)&lt;/script&gt;", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := String(tc.in); got != tc.want {
				t.Fatalf("String(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStringSlice(t *testing.T) {
	t.Parallel()

	got := StringSlice([]any{" 1 cup flour ", "", "   ", "2 eggs", float64(3)})
	want := []string{"1 cup flour", "2 eggs", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("StringSlice = %v, want %v", got, want)
	}

	if got := StringSlice("not an array"); got != nil {
		t.Fatalf("expected nil for non-array input, got %v", got)
	}
	if got := StringSlice(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %v", got)
	}
}

func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "https kept", in: "https://example.com/img.jpg", want: "https://example.com/img.jpg"},
		{name: "http kept", in: "http://example.com", want: "http://example.com"},
		{name: "javascript dropped", in: "javascript:alert(1)", want: ""},
		{name: "data dropped", in: "data:text/html;base64,xxx", want: ""},
		{name: "relative dropped", in: "/img.jpg", want: ""},
		{name: "garbage dropped", in: "not a url", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := URL(tc.in); got != tc.want {
				t.Fatalf("URL(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRichText(t *testing.T) {
	t.Parallel()

	in := `<p>Great <strong>recipe</strong></p><script>alert(1)</script><p onclick="x()">steps</p>`
	got := RichText(in)

	if want := "<p>Great <strong>recipe</strong></p><p>steps</p>"; got != want {
		t.Fatalf("RichText = %q, want %q", got, want)
	}
}

func TestRichTextNonScalar(t *testing.T) {
	t.Parallel()

	if got := RichText([]any{"x"}); got != "" {
		t.Fatalf("expected empty rich text for non-scalar input, got %q", got)
	}
}
