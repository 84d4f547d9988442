package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dshills/delegator/internal/delegate"
)

// Describe writes the root and every registry in declaration order.
func (app *Application) Describe(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "root\t#%s\n", app.cfg.Root)
	describeRegistry(tw, "config", app.dispatcher.Registry())
	if app.scriptDispatcher != nil {
		describeRegistry(tw, "script "+app.cfg.Script.Path, app.scriptDispatcher.Registry())
	}
	return tw.Flush()
}

func describeRegistry(w io.Writer, name string, reg *delegate.Registry) {
	fmt.Fprintf(w, "\n%s\t%d event types, %d bindings\n", name, reg.Len(), reg.Total())
	for _, typ := range reg.Types() {
		for i, b := range reg.Lookup(typ) {
			fmt.Fprintf(w, "  %s\t%d\t%s\n", typ, i, b)
		}
	}
}
