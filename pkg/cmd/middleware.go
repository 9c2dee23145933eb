package cmd

// Middleware adds one layer around a command, such as panic recovery or
// command logging.
type Middleware func(Command) Command

// Apply wraps c with mws. The first middleware is innermost, so the last
// one sees the final error.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		if mw != nil {
			c = mw(c)
		}
	}
	return c
}

// Chain folds mws into a single middleware with the order of Apply.
func Chain(mws ...Middleware) Middleware {
	return func(c Command) Command { return Apply(c, mws...) }
}
