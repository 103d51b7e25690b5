package observers

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/your-org/promptpipe/pkg/backend"
	"github.com/your-org/promptpipe/pkg/notify"
)

// Console returns an observer that prints each published result to w.
func Console(w io.Writer) notify.Observer {
	label := color.New(color.FgCyan, color.Bold).SprintFunc()
	text := color.New(color.FgGreen).SprintFunc()

	return notify.ObserverFunc(func(res backend.Result) error {
		_, err := fmt.Fprintf(w, "%s %s\n", label("result:"), text(res.Text))
		return err
	})
}
