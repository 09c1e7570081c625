// Package errors defines error types for the maudeview agent.
//
// This package provides structured error types that wrap the different
// failure scenarios when driving the tool-server subprocess and the model
// gateway. All error types support error unwrapping and can be checked
// using errors.Is and errors.As.
package errors
