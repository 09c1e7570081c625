// Package agent orchestrates the tool-calling loop between a conversational
// model and the tool-server subprocess.
//
// Each query runs the state machine: request the model, execute any
// requested tools through the protocol client, feed the results back, and
// repeat until the model produces a text-only answer or the turn budget is
// exhausted. Tool failures are surfaced to the model as error-flagged
// results rather than aborting the conversation.
package agent
