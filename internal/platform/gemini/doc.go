// Package gemini implements ai.Service on Google's Gemini API.
//
// Each Service method renders a prompt template, makes one GenerateContent call
// (JSON-constrained where the answer is structured) and converts the response
// into the ai package's types. Transient failures are retried with exponential
// backoff and jitter up to the configured number of retries. Safety blocks are
// reported as ai.ErrContentFiltered and are never retried.
package gemini
