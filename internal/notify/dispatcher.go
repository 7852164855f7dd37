// Package notify is the fire-and-forget mail boundary. Callers never treat
// a dispatch failure as their own failure; errors are logged and dropped at
// the call site.
package notify

import "context"

type Dispatcher interface {
	Send(ctx context.Context, to, subject, html string) error
}
