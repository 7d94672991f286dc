package cli

import (
	gocontext "context"
)

// NewContext returns the context for a CLI invocation.
func NewContext() gocontext.Context {
	return gocontext.Background()
}
