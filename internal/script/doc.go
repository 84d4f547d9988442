// Package script loads delegation declarations written in Lua.
//
// A script returns a table keyed by event type. Each event maps binding keys
// to either a handler function (shorthand) or a table with func, type and
// stop fields (verbose):
//
//	local n = 0
//	return {
//	  click = {
//	    item = function(self, e)
//	      self.last = e.target.id
//	    end,
//	    save = { func = function(self, e) self.saved = true end, type = "id", stop = true },
//	  },
//	  keydown = {
//	    item = function(self, e) print("key", e.key) end,
//	  },
//	}
//
// Declaration order follows the order keys appear in the table constructor.
//
// In a verbose table, type is read as a string and stop as a boolean. stop
// follows these rules rather than Lua truthiness: a missing stop, false, 0
// and the empty string are false; any other number is true; a string is
// parsed like strconv.ParseBool, so "false" and "0" are false and "yes" is
// rejected as a malformed binding.
//
// Every handler receives the same self table, which is the runtime's shared
// execution context. Go code reads it with Runtime.Get. The event argument
// carries type, target (id, classes), x, y, button, key, rune, modifiers and
// a stop() function that stops bubbling.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring and require are removed, and print writes to
// the runtime's logger.
//
// # Errors
//
// A Lua error raised inside a handler panics with *HandlerError. The
// delegation dispatcher does not recover handler panics, so the error reaches
// whoever delivered the event.
//
// # Concurrency
//
// A Runtime serializes access to its Lua state with a mutex. gopher-lua
// states are not goroutine-safe.
package script
