// Package items is the application service for lists and their items. It
// validates input, classifies new items into sections, keeps sections
// alphabetized, and produces the wire payloads shared by the REST API and
// the realtime socket.
package items
