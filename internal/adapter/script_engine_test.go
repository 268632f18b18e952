package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGojaScriptEngine_Execute(t *testing.T) {
	engine := NewGojaScriptEngine(time.Second)
	ctx := context.Background()

	t.Run("final value", func(t *testing.T) {
		result, err := engine.Execute(ctx, "sum.js", "var a = 40;\na + 2")

		require.NoError(t, err)
		assert.Nil(t, result.Exception)
		assert.False(t, result.Undefined)
		assert.Equal(t, "42", result.Value)
	})

	t.Run("undefined value", func(t *testing.T) {
		result, err := engine.Execute(ctx, "decl.js", "var a = 1;")

		require.NoError(t, err)
		assert.True(t, result.Undefined)
		assert.Empty(t, result.Value)
	})

	t.Run("console log is captured in order", func(t *testing.T) {
		result, err := engine.Execute(ctx, "log.js", "console.log('a', 1);\nconsole.log({}.x);\n'done'")

		require.NoError(t, err)
		assert.Equal(t, []string{"a 1", "undefined"}, result.Console)
		assert.Equal(t, "done", result.Value)
	})

	t.Run("thrown error carries message and line", func(t *testing.T) {
		result, err := engine.Execute(ctx, "throw.js", "var a = 1;\nthrow new Error('boom');")

		require.NoError(t, err)
		require.NotNil(t, result.Exception)
		assert.Contains(t, result.Exception.Message, "boom")
		assert.Equal(t, 2, result.Exception.Line)
	})

	t.Run("syntax error is an exception", func(t *testing.T) {
		result, err := engine.Execute(ctx, "broken.js", "var = ;")

		require.NoError(t, err)
		require.NotNil(t, result.Exception)
		assert.NotEmpty(t, result.Exception.Message)
	})

	t.Run("each run starts from a fresh runtime", func(t *testing.T) {
		_, err := engine.Execute(ctx, "first.js", "var leaked = 1;")
		require.NoError(t, err)

		result, err := engine.Execute(ctx, "second.js", "typeof leaked")
		require.NoError(t, err)
		assert.Equal(t, "undefined", result.Value)
	})
}

func TestGojaScriptEngine_Timeout(t *testing.T) {
	engine := NewGojaScriptEngine(50 * time.Millisecond)

	result, err := engine.Execute(context.Background(), "loop.js", "while (true) {}")

	require.NoError(t, err)
	require.NotNil(t, result.Exception)
	assert.Contains(t, result.Exception.Message, "timed out")
}

func TestGojaScriptEngine_Cancel(t *testing.T) {
	engine := NewGojaScriptEngine(0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := engine.Execute(ctx, "loop.js", "for (;;) {}")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = engine.Execute(ctx, "after.js", "1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
