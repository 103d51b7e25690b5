// Package backend normalizes heterogeneous generative-model backends behind
// one invocation contract.
//
// Subpackages:
//   - openai
//   - anthropic
package backend
