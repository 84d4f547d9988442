package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Validate checks the configuration for structural errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "unknown level %q", c.Log.Level)
	}
	if _, err := c.Script.TimeoutDuration(); err != nil {
		add("script.timeout", "%v", err)
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		add("metrics.address", "required when metrics are enabled")
	}

	ids := make(map[string]bool, len(c.Elements))
	tops := 0
	for i, el := range c.Elements {
		field := fmt.Sprintf("element[%d]", i)
		switch {
		case el.ID == "":
			add(field+".id", "must not be empty")
		case ids[el.ID]:
			add(field+".id", "duplicate id %q", el.ID)
		}
		ids[el.ID] = true

		if el.Parent == "" {
			tops++
		} else if el.Parent == el.ID {
			add(field+".parent", "element %q is its own parent", el.ID)
		}
		if el.Width < 0 || el.Height < 0 {
			add(field, "negative size")
		}
	}
	if len(c.Elements) > 0 && tops != 1 {
		add("element", "want exactly one element without a parent, got %d", tops)
	}
	for i, el := range c.Elements {
		if el.Parent != "" && !ids[el.Parent] {
			add(fmt.Sprintf("element[%d].parent", i), "unknown parent %q", el.Parent)
		}
	}

	if c.Root == "" {
		add("root", "must not be empty")
	} else if len(c.Elements) > 0 && !ids[c.Root] {
		add("root", "no element with id %q", c.Root)
	}

	for i, b := range c.Bindings {
		field := fmt.Sprintf("binding[%d]", i)
		if b.Event == "" {
			add(field+".event", "must not be empty")
		}
		if b.Key == "" {
			add(field+".key", "must not be empty")
		}
		if b.Action == "" {
			add(field+".action", "must not be empty")
		}
	}

	return errors.Join(errs...)
}
