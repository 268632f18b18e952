package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"

	m "precheck.dev/pkg/precheck/internal/model"
)

// ScriptEngine executes JavaScript content. Exceptions raised by the script
// are part of the result; the returned error is reserved for cancellation
// of ctx.
type ScriptEngine interface {
	Execute(ctx context.Context, name, script string) (m.ScriptResult, error)
}

var (
	syntaxLinePattern = regexp.MustCompile(`Line (\d+):\d+`)
	errScriptTimeout  = errors.New("script timed out")
)

// GojaScriptEngine runs each script in a fresh goja runtime with a console
// object whose log method is captured.
type GojaScriptEngine struct {
	timeout time.Duration
}

// NewGojaScriptEngine creates an engine. A zero timeout disables the limit.
func NewGojaScriptEngine(timeout time.Duration) *GojaScriptEngine {
	return &GojaScriptEngine{timeout: timeout}
}

// Execute runs script and reports its final value or the exception it raised.
func (e *GojaScriptEngine) Execute(ctx context.Context, name, script string) (m.ScriptResult, error) {
	var result m.ScriptResult

	if err := ctx.Err(); err != nil {
		return result, err
	}

	vm := goja.New()

	console := vm.NewObject()
	if err := console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}

		line := strings.Join(parts, " ")
		result.Console = append(result.Console, line)
		slog.Debug("console.log", "script", name, "message", line)

		return goja.Undefined()
	}); err != nil {
		return result, fmt.Errorf("install console: %w", err)
	}

	if err := vm.Set("console", console); err != nil {
		return result, fmt.Errorf("install console: %w", err)
	}

	var timer *time.Timer
	if e.timeout > 0 {
		timer = time.AfterFunc(e.timeout, func() { vm.Interrupt(errScriptTimeout) })
		defer timer.Stop()
	}

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	value, err := vm.RunScript(name, script)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}

			result.Exception = &m.ScriptException{Message: fmt.Sprintf("%v after %s", errScriptTimeout, e.timeout)}

			return result, nil
		}

		result.Exception = scriptException(name, err)
		slog.Debug("script raised an exception", "script", name, "error", err)

		return result, nil
	}

	if value == nil || goja.IsUndefined(value) {
		result.Undefined = true
		return result, nil
	}

	result.Value = value.String()

	return result, nil
}

// scriptException converts a goja error into a located exception. Runtime
// exceptions carry a stack whose first frame is the throw site; syntax
// errors carry "Line N:C" in their message.
func scriptException(name string, err error) *m.ScriptException {
	exc := &m.ScriptException{Message: err.Error()}
	texts := []string{err.Error()}

	var jsErr *goja.Exception
	if errors.As(err, &jsErr) {
		if v := jsErr.Value(); v != nil {
			exc.Message = v.String()
		}

		texts = append([]string{jsErr.String()}, texts...)
	}

	framePattern := regexp.MustCompile(regexp.QuoteMeta(name) + `:(\d+):\d+`)

	for _, pattern := range []*regexp.Regexp{framePattern, syntaxLinePattern} {
		for _, text := range texts {
			if match := pattern.FindStringSubmatch(text); match != nil {
				exc.Line, _ = strconv.Atoi(match[1])
				return exc
			}
		}
	}

	return exc
}
