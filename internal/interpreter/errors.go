package interpreter

import "errors"

var (
	// ErrLLMUnavailable means every retry attempt against the LLM
	// failed. Callers recover by using the fallback parser.
	ErrLLMUnavailable = errors.New("llm unavailable after retries")

	// ErrEmptyInput is returned for blank user text.
	ErrEmptyInput = errors.New("input text is empty")
)
