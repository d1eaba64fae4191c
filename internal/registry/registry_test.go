package registry

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()
	entry, ok := Lookup("enforce-single-string-quotes")
	require.True(t, ok)
	assert.Equal(t, BooleanValue, entry.Kind)

	entry, ok = Lookup("function-keyword")
	require.True(t, ok)
	assert.Equal(t, KeywordValue, entry.Kind)

	_, ok = Lookup("custom-random-rule?")
	assert.False(t, ok)
}

func TestConflictingIsSymmetric(t *testing.T) {
	t.Parallel()
	assert.True(t, Conflicting("enforce-single-string-quotes", "enforce-double-string-quotes"))
	assert.True(t, Conflicting("enforce-double-string-quotes", "enforce-single-string-quotes"))

	assert.False(t, Conflicting("semicolons-required", "enforce-single-string-quotes"))
	assert.False(t, Conflicting("semicolons-required", "semicolons-required"))
	assert.False(t, Conflicting("no-such-rule", "enforce-single-string-quotes"))
}

func TestPrimitivePatternsCompile(t *testing.T) {
	t.Parallel()
	for _, name := range PrimitiveTypeNames {
		pattern, ok := PrimitivePattern(name)
		require.True(t, ok, "missing pattern for %s", name)
		_, err := regexp.Compile(pattern)
		assert.NoError(t, err, "pattern for %s must compile", name)
	}
}

func TestPrimitivePatternMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typeName string
		input    string
		match    bool
	}{
		{"int", "42", true},
		{"int", "abc", false},
		{"decimal", "3.14", true},
		{"decimal", "3", false},
		{"string", "'hello'", true},
		{"string", `"hello"`, true},
		{"string", "hello", false},
		{"boolean", "true", true},
		{"boolean", "false", true},
		{"boolean", "yes", false},
	}
	for _, tt := range tests {
		pattern, ok := PrimitivePattern(tt.typeName)
		require.True(t, ok)
		re := regexp.MustCompile("^" + pattern + "$")
		assert.Equal(t, tt.match, re.MatchString(tt.input), "%s against %q", tt.typeName, tt.input)
	}
}

func TestIsPrimitiveType(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"int", "string", "boolean", "decimal"} {
		assert.True(t, IsPrimitiveType(name))
	}
	assert.False(t, IsPrimitiveType("float"))
	assert.False(t, IsPrimitiveType("whitespace"), "whitespace is not declarable in angle brackets")
}
