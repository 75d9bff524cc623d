package parse

import "testing"

func TestHtmlToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hi there", "Hi there"},
		{"paragraph", "<p>Hi there</p>", "Hi there"},
		{"line breaks", "line one<br>line two<br/>line three", "line one\nline two\nline three"},
		{"list items", "<ul><li>one</li><li>two</li></ul>", "- one\n- two"},
		{"headings all levels", "<h1>Top</h1><h4>Mid</h4>", "### Top\n### Mid"},
		{"horizontal rule", "before<hr>after", "before\n---\nafter"},
		{"strips unknown tags", `<div class="x"><span>kept</span></div>`, "kept"},
		{"entities", "&lt;tag&gt; &amp; &quot;quoted&quot; &#39;s", `<tag> & "quoted" 's`},
		{"unclosed tag", "<p>open paragraph", "open paragraph"},
		{"collapses blank runs", "<p>a</p><p></p><p></p><p>b</p>", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlToText(tt.input)
			if got != tt.want {
				t.Errorf("htmlToText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHtmlToText_MixedFragment(t *testing.T) {
	in := "<h2>Answer</h2><p>First point:</p><ul><li>alpha</li><li>beta</li></ul><hr><p>Done &amp; dusted</p>"
	want := "### Answer\n\nFirst point:\n- alpha\n- beta\n\n---\n\nDone & dusted"
	if got := htmlToText(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
