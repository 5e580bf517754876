package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandExpr(t *testing.T) {
	env := map[string]string{"FOO": "bar", "A": "1", "B": "2", "X": "x", "EMPTY": ""}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	testCases := []struct {
		description string
		input       string
		expect      string
	}{
		{description: "no expressions", input: "just a plain string", expect: "just a plain string"},
		{description: "single expression", input: "value is ${env.FOO}", expect: "value is bar"},
		{description: "multiple expressions", input: "${env.A}-${env.B}-${env.A}", expect: "1-2-1"},
		{description: "unset variable", input: "unset=${env.NOTSET}-end", expect: "unset=-end"},
		{description: "fallback", input: "model=${env.NOTSET:-gpt-4o}", expect: "model=gpt-4o"},
		{description: "set variable ignores fallback", input: "${env.FOO:-baz}", expect: "bar"},
		{description: "empty variable is set", input: "[${env.EMPTY:-x}]", expect: "[]"},
		{description: "missing closing brace", input: "start ${env.X and ${env.Y} end", expect: "start ${env.X and  end"},
		{description: "empty key", input: "oops ${env.} done", expect: "oops  done"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, expandExpr(tc.input, lookup))
		})
	}
}

func TestExpandEnvExpr(t *testing.T) {
	t.Setenv("WEAVER_TEST_EXPR", "value")
	assert.Equal(t, "a=value", expandEnvExpr("a=${env.WEAVER_TEST_EXPR}"))
}
