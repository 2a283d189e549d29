package anchor

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatchingBrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		open int
		want int
	}{
		{"flat", "{}", 0, 1},
		{"nested", "a { b { c } d } e", 2, 14},
		{"inner", "a { b { c } d } e", 6, 10},
		{"deep", "{{{{}}}}", 0, 7},
		{"unmatched", "{ { }", 0, NotFound},
		{"not a brace", "abc", 1, NotFound},
		{"out of range", "{}", 5, NotFound},
		{"negative", "{}", -1, NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FindMatchingBrace(tt.text, tt.open))
		})
	}
}

func TestFindMatchingBrace_PairsEveryGeneratedNesting(t *testing.T) {
	t.Parallel()

	for depth := 1; depth <= 12; depth++ {
		text := strings.Repeat("{x", depth) + strings.Repeat("}", depth)
		assert.Equal(t, len(text)-1, FindMatchingBrace(text, 0), "depth %d", depth)
		assert.Equal(t, NotFound, FindMatchingBrace(text[:len(text)-1], 0), "depth %d truncated", depth)
	}
}

func TestBlockBody(t *testing.T) {
	t.Parallel()

	text := "android {\n  defaultConfig { x }\n}\ndependencies {\n  implementation 'a'\n}\n"
	span, err := BlockBody(text, regexp.MustCompile(`dependencies\s*`))
	require.NoError(t, err)
	assert.Equal(t, "\n  implementation 'a'\n", span.In(text))

	span, err = BlockBody(text, regexp.MustCompile(`android\s*`))
	require.NoError(t, err)
	assert.Equal(t, "\n  defaultConfig { x }\n", span.In(text))

	_, err = BlockBody(text, regexp.MustCompile(`buildscript`))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = BlockBody("dependencies {\n", regexp.MustCompile(`dependencies`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlockBodyFrom(t *testing.T) {
	t.Parallel()

	text := "a { 1 } a { 2 }"
	span, err := BlockBodyFrom(text, 4, regexp.MustCompile(`a `))
	require.NoError(t, err)
	assert.Equal(t, " 2 ", span.In(text))
}

func TestFindAndSplice(t *testing.T) {
	t.Parallel()

	text := "apply plugin: 'a'\napply plugin: 'b'\n"
	re := regexp.MustCompile(`(?m)^apply plugin:.*$`)

	first, err := Find(text, re)
	require.NoError(t, err)
	last, err := FindLast(text, re)
	require.NoError(t, err)

	assert.Equal(t, "apply plugin: 'a'", first.In(text))
	assert.Equal(t, "apply plugin: 'b'", last.In(text))
	assert.Equal(t, 17, first.Len())

	assert.Equal(t, "apply plugin: 'a'\napply plugin: 'b'\nX\n", SpliceAt(text, last.End, "\nX"))
	assert.Equal(t, "Y\napply plugin: 'b'\n", Replace(text, first, "Y"))

	_, err = FindLast(text, regexp.MustCompile(`nothing`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindGroups(t *testing.T) {
	t.Parallel()

	text := "class AppDelegate: Base {"
	groups, err := FindGroups(text, regexp.MustCompile(`class\s+(\w+)\s*:\s*([^{]+)`))
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "AppDelegate", groups[1].In(text))
	assert.Equal(t, "Base ", groups[2].In(text))

	_, err = FindGroups(text, regexp.MustCompile(`struct`))
	assert.ErrorIs(t, err, ErrNotFound)
}
