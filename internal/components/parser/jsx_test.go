package parser

import (
	"errors"
	"testing"
)

func knownNames(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(name string) bool { return set[name] }
}

func TestJSXPreprocessor_Process(t *testing.T) {
	pre := NewJSXPreprocessor(knownNames("callout", "youtube"))

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paired",
			input: `<Callout type="warning">Careful</Callout>`,
			want:  `{{< callout type="warning" >}}Careful{{< /callout >}}`,
		},
		{
			name:  "self closing",
			input: `<YouTube id="dQw4w9WgXcQ" />`,
			want:  `{{< youtube id="dQw4w9WgXcQ" />}}`,
		},
		{
			name:  "expression attribute",
			input: `<YouTube id="dQw4w9WgXcQ" start={30}/>`,
			want:  `{{< youtube id="dQw4w9WgXcQ" start={30} />}}`,
		},
		{
			name:  "multi line attributes",
			input: "<Callout\n  type=\"tip\"\n>x</Callout>",
			want:  `{{< callout type="tip" >}}x{{< /callout >}}`,
		},
		{
			name:  "lowercase html untouched",
			input: `<div class="note"><b>bold</b></div>`,
			want:  `<div class="note"><b>bold</b></div>`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pre.Process(tc.input)
			if err != nil {
				t.Fatalf("Process() unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Process() mismatch\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestJSXPreprocessor_LeavesUnregisteredTags(t *testing.T) {
	pre := NewJSXPreprocessor(knownNames("callout"))

	for _, input := range []string{
		`<Chart data={[1,2]} />`,
		`A Java List<String> holds strings.`,
		`Map<Key, Value> and </Unmatched>`,
	} {
		got, err := pre.Process(input)
		if err != nil {
			t.Fatalf("Process(%q) unexpected error: %v", input, err)
		}
		if got != input {
			t.Fatalf("Process(%q) changed input to %q", input, got)
		}
	}
}

func TestJSXPreprocessor_RejectsDanglingRegisteredTag(t *testing.T) {
	pre := NewJSXPreprocessor(knownNames("callout"))

	for _, input := range []string{
		`<Callout type="warning"`,
		"List<String> then <Callout\ntype=\"tip\"",
	} {
		if _, err := pre.Process(input); !errors.Is(err, ErrMalformedComponent) {
			t.Fatalf("Process(%q) expected ErrMalformedComponent, got %v", input, err)
		}
	}
}
