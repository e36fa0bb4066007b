package tailwindify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const (
	pre = DefaultWarnPrefix
	suf = DefaultWarnSuffix
)

func newDefaultRuleSet(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet(DefaultMarkers())
	require.NoError(t, err)
	return rs
}

func TestRuleSetApply(t *testing.T) {
	rs := newDefaultRuleSet(t)

	tests := []struct {
		name    string
		input   string
		want    string
		flagged int
	}{
		{name: "margin top", input: "mt4", want: "mt-4"},
		{name: "margin top rem", input: "mt4r", want: pre + "mt-4r" + suf, flagged: 1},
		{name: "padding left rem", input: "pl12r", want: pre + "pl-12r" + suf, flagged: 1},
		{name: "font size", input: "fs14", want: "text-14"},
		{name: "font size with dash", input: "fs-16", want: "text-16"},
		{name: "font size rem", input: "fs14r", want: pre + "text-14r" + suf, flagged: 1},
		{name: "font weight", input: "font-weight-700", want: "font-700"},
		{name: "line height percent", input: "lh20p", want: "leading-20%"},
		{name: "line height long form", input: "line-height-24", want: "leading-24"},
		{name: "line height rem", input: "lh20r", want: pre + "leading-20r" + suf, flagged: 1},
		{name: "radius percent", input: "br8p", want: "rounded-8%"},
		{name: "radius long form", input: "border-radius-4", want: "rounded-4"},
		{name: "radius rem", input: "br4r", want: pre + "rounded-4r" + suf, flagged: 1},
		{name: "opacity always flagged", input: "opacity-50", want: pre + "opacity-50" + suf, flagged: 1},
		{name: "color six digits", input: "c1a2b3c", want: "text-#1a2b3c"},
		{name: "color three digits with dash", input: "c-fff", want: "text-#fff"},
		{name: "grid columns always flagged", input: "grid-template-columns-3", want: pre + "grid-template-columns-3" + suf, flagged: 1},
		{
			name:  "class attribute",
			input: `<div class="mt4 fs14 c333">`,
			want:  `<div class="mt-4 text-14 text-#333">`,
		},
		{
			name:  "string literal is not special",
			input: `const cls = "pb8"; // pb8`,
			want:  `const cls = "pb-8"; // pb-8`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rs.Apply(tt.input)
			assert.Equal(t, tt.want, got.Content)
			assert.True(t, got.Changed)
			assert.Equal(t, tt.flagged, got.Flagged)
		})
	}
}

func TestRuleSetApply_NoMatchIsUnchanged(t *testing.T) {
	rs := newDefaultRuleSet(t)

	input := "const greeting = 'hello world';\nexport default greeting;\n"
	got := rs.Apply(input)

	assert.Equal(t, input, got.Content)
	assert.False(t, got.Changed)
	assert.Zero(t, got.Replacements)
}

func TestRuleSetApply_CountsReplacements(t *testing.T) {
	rs := newDefaultRuleSet(t)

	got := rs.Apply(`<p class="mt4 mb8r opacity-20">`)
	assert.Equal(t, `<p class="mt-4 `+pre+`mb-8r`+suf+` `+pre+`opacity-20`+suf+`">`, got.Content)
	assert.Equal(t, 3, got.Replacements)
	assert.Equal(t, 2, got.Flagged)
}

// Wrapped output is plain text to the engine, so a second pass wraps again.
func TestRuleSetApply_NotIdempotentOnWrappedOutput(t *testing.T) {
	rs := newDefaultRuleSet(t)

	once := rs.Apply("opacity-50").Content
	twice := rs.Apply(once)

	assert.Equal(t, pre+"opacity-50"+suf, once)
	assert.Equal(t, pre+pre+"opacity-50"+suf+suf, twice.Content)
	assert.True(t, twice.Changed)

	// rewritten spacing tokens no longer match
	assert.False(t, rs.Apply("mt-4").Changed)
}

// Later rules scan the cumulative content, markers included.
func TestRuleSetApply_MarkersSeenByLaterRules(t *testing.T) {
	rs, err := NewRuleSet(Markers{Prefix: "[cabe]", Suffix: "[/]"})
	require.NoError(t, err)

	got := rs.Apply("opacity-50")
	assert.Equal(t, "[text-#abe]opacity-50[/]", got.Content)
	assert.Equal(t, 2, got.Replacements)
	assert.Equal(t, 1, got.Flagged)
}

func TestRuleSetApply_EmptyMarkers(t *testing.T) {
	rs, err := NewRuleSet(Markers{})
	require.NoError(t, err)

	got := rs.Apply("opacity-50")
	assert.Equal(t, "opacity-50", got.Content)
	assert.False(t, got.Changed, "a match that rewrites to itself is not a change")
	assert.Equal(t, 1, got.Replacements)
}

func TestNewRuleSet_Order(t *testing.T) {
	rs := newDefaultRuleSet(t)

	names := make([]string, 0, rs.Len())
	for _, rule := range rs.Rules() {
		names = append(names, rule.Name)
	}
	assert.Equal(t, []string{
		"spacing", "font-size", "font-weight", "line-height",
		"border-radius", "opacity", "color", "grid-columns",
	}, names)
	assert.Equal(t, names, RuleNames())
}

func TestNewRuleSet_Disabled(t *testing.T) {
	rs, err := NewRuleSet(DefaultMarkers(), WithDisabled("opacity", " color "))
	require.NoError(t, err)

	assert.Equal(t, 6, rs.Len())
	got := rs.Apply("opacity-50 c333 mt4")
	assert.Equal(t, "opacity-50 c333 mt-4", got.Content)
}

func TestNewRuleSet_UnknownDisabled(t *testing.T) {
	_, err := NewRuleSet(DefaultMarkers(), WithDisabled("opacity", "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `nope`)
	assert.Contains(t, err.Error(), "spacing")
}

func TestCompileRules_BadPattern(t *testing.T) {
	defs := []ruleDef{
		{name: "ok", pattern: `ok(\d+)`, build: func(Markers) Rewriter { return fontWeightRewriter{} }},
		{name: "broken", pattern: `(unclosed`, build: func(Markers) Rewriter { return fontWeightRewriter{} }},
	}

	rs, err := compileRules(defs, DefaultMarkers())
	require.Error(t, err)
	assert.Nil(t, rs)
	assert.True(t, errors.Is(err, ErrRuleCompile))

	var rce *RuleCompileError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, "(unclosed", rce.Pattern)
	assert.Contains(t, err.Error(), "(unclosed")
}

func TestRuleSetApply_Concurrent(t *testing.T) {
	rs := newDefaultRuleSet(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := rs.Apply(`<div class="mt4 fs14r">`)
				assert.Equal(t, `<div class="mt-4 `+pre+`text-14r`+suf+`">`, got.Content)
			}
		}()
	}
	wg.Wait()
}
