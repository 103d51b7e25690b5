package prompt

import (
	"fmt"
	"strings"
)

const (
	defaultTemperature = 1.0
	defaultMaxTokens   = 100

	minTemperature = 0.0
	maxTemperature = 2.0
)

// Example is one few-shot demonstration pair.
type Example struct {
	Input  string
	Output string
}

// Request is the fully assembled unit sent to a backend. It is a plain value;
// once built it never changes.
type Request struct {
	PromptText  string
	Temperature float64
	MaxTokens   int
}

// InvalidRequestError reports a build-time validation failure.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// Builder accumulates request configuration. Setters chain and may be called
// repeatedly; last write wins for scalars, AddExample appends. Build does not
// reset the builder, so one configured builder can stamp out equal Requests.
type Builder struct {
	prompt      string
	temperature float64
	maxTokens   int
	examples    []Example
}

func NewBuilder() *Builder {
	return &Builder{temperature: defaultTemperature, maxTokens: defaultMaxTokens}
}

func (b *Builder) SetPrompt(text string) *Builder {
	b.prompt = text
	return b
}

func (b *Builder) SetTemperature(t float64) *Builder {
	b.temperature = t
	return b
}

func (b *Builder) SetMaxTokens(n int) *Builder {
	b.maxTokens = n
	return b
}

func (b *Builder) AddExample(input, output string) *Builder {
	b.examples = append(b.examples, Example{Input: input, Output: output})
	return b
}

// Build validates the accumulated configuration and produces the Request.
// With examples present the prompt becomes a few-shot transcript; without
// them it is used verbatim.
func (b *Builder) Build() (Request, error) {
	if b.prompt == "" {
		return Request{}, &InvalidRequestError{Field: "prompt", Reason: "not set"}
	}
	if b.temperature < minTemperature || b.temperature > maxTemperature {
		return Request{}, &InvalidRequestError{
			Field:  "temperature",
			Reason: fmt.Sprintf("%g outside [%g, %g]", b.temperature, minTemperature, maxTemperature),
		}
	}
	if b.maxTokens <= 0 {
		return Request{}, &InvalidRequestError{
			Field:  "maxTokens",
			Reason: fmt.Sprintf("%d is not positive", b.maxTokens),
		}
	}

	return Request{
		PromptText:  b.fold(),
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}, nil
}

func (b *Builder) fold() string {
	if len(b.examples) == 0 {
		return b.prompt
	}

	var sb strings.Builder
	for _, ex := range b.examples {
		fmt.Fprintf(&sb, "Input: %s\nOutput: %s\n\n", ex.Input, ex.Output)
	}
	fmt.Fprintf(&sb, "Input: %s\nOutput:", b.prompt)
	return sb.String()
}
