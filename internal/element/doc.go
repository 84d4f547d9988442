// Package element provides the terminal element tree events are delegated
// over: elements with an id, a class list and screen bounds, a Document that
// resolves and hit-tests them, and bubble-phase event delivery from the
// originating element up to the document root.
package element
