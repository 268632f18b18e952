package model

// ScriptException is an engine-level failure raised while executing a script.
type ScriptException struct {
	Message string
	// Line is 0 when the engine did not report a location.
	Line int
}

// ScriptResult is the outcome of running JavaScript content.
type ScriptResult struct {
	// Value is the string form of the final evaluated value; empty when undefined.
	Value     string
	Undefined bool
	// Console collects console.log output in call order.
	Console   []string
	Exception *ScriptException
}
