// Package term connects the element tree to a real terminal through tcell.
//
// Screen owns the tcell screen and feeds its events into a channel.
// Translator turns raw tcell mouse and key events into element events
// (mousedown, mouseup, click, mousemove, mouseover, mouseout, wheel,
// keydown) targeted by hit-testing the document. Render draws the document
// and a status line.
//
//	tcell.Event ──► Translator ──► []*element.Event ──► element.Dispatch
//	                   │                                   │
//	                   └── HitTest / focus / hover         └── bubbles to root
package term
