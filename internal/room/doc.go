// Package room implements the realtime fan-out for shared lists. Each list
// with at least one open connection has a room; commands from any
// subscriber are applied one at a time and the resulting events are pushed
// to every subscriber of that list, in order.
package room
