// Package ai defines the boundary between the operation processor and the
// language model that does the actual work. The processor treats every call as
// an opaque, fallible, context-aware request; provider selection, prompt
// construction, caching and retrying all live behind the Service interface.
package ai
