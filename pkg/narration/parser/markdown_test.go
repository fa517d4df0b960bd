package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdown(t *testing.T) {
	fence := "```"
	md := "# Title\n\n" +
		"Some **bold** and *em* text with [a link](http://example.com) and `code`.\n\n" +
		"- item one\n" +
		"- item two\n\n" +
		fence + "go\nfmt.Println()\n" + fence + "\n\n" +
		"> quote\n"

	assert.Equal(t, "Title\n\nSome bold and em text with a link and code.\n\nitem one\nitem two\n\nquote", CleanMarkdown(md))
}

func TestCleanMarkdown_Elements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "numbered list", in: "1. first\n2) second", want: "first\nsecond"},
		{name: "image keeps alt text", in: "See ![a diagram](img.png) here", want: "See a diagram here"},
		{name: "strikethrough", in: "~~old~~ new", want: "old new"},
		{name: "underscore emphasis", in: "an _important_ word", want: "an important word"},
		{name: "snake_case is untouched", in: "call snake_case_name now", want: "call snake_case_name now"},
		{name: "html tags", in: "a <br/> b <span class=\"x\">c</span>", want: "a  b c"},
		{name: "horizontal rule", in: "above\n\n---\n\nbelow", want: "above\n\nbelow"},
		{name: "table", in: "| A | B |\n|---|:---:|\n| 1 | 2 |", want: "A B\n\n1 2"},
		{name: "crlf", in: "## Head\r\nbody", want: "Head\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdown(tt.in))
		})
	}
}

func TestParser_Parse(t *testing.T) {
	segments, err := NewParser(20).Parse("**First sentence here.** Second one is here.")
	require.NoError(t, err)

	assert.Equal(t, []Segment{
		{Index: 0, Text: "First sentence here."},
		{Index: 1, Text: "Second one is here."},
	}, segments)
}

func TestParser_DefaultLimit(t *testing.T) {
	p := NewParser(0)
	assert.Equal(t, DefaultMaxChars, p.maxChars)

	segments, err := p.Parse("   ")
	require.NoError(t, err)
	assert.Empty(t, segments)
}
