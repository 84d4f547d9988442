package delegate

import "sort"

// Context is a map-backed shared execution context. One Context is shared by
// every handler of a dispatcher, so handlers bound to different event types
// or matchers can read what others wrote.
//
// Context is not safe for concurrent use.
type Context struct {
	values map[string]any
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores v under key.
func (c *Context) Set(key string, v any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = v
}

// Has reports whether key is set.
func (c *Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Delete removes key.
func (c *Context) Delete(key string) {
	delete(c.values, key)
}

// Len returns the number of stored keys.
func (c *Context) Len() int {
	return len(c.values)
}

// Keys returns the stored keys in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Int returns the value under key as an int, or 0 if it is missing or not
// numeric.
func (c *Context) Int(key string) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Incr adds one to the integer under key and returns the new value.
func (c *Context) Incr(key string) int {
	n := c.Int(key) + 1
	c.Set(key, n)
	return n
}

// String returns the value under key as a string, or "" if it is not one.
func (c *Context) String(key string) string {
	s, _ := c.values[key].(string)
	return s
}

// Bool returns the value under key as a bool, or false if it is not one.
func (c *Context) Bool(key string) bool {
	b, _ := c.values[key].(bool)
	return b
}
