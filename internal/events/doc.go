// Package events carries operation lifecycle events from the processor to any
// number of interested components.
//
// The processor exposes a single pair of channels meant for one subscriber. An
// EventEmitter fed from those channels lets several handlers (result history,
// logging, future push notifications) observe the same events independently.
package events
