package resolver

// options.go has functions that return closures for setting options of a Resolver, eg:
//
//   r, err := resolver.New(s, schema.Default(), resolver.NoConcurrency(true))

// NoConcurrency turns off concurrent resolution of fields (all fields are resolved in the calling goroutine)
func NoConcurrency(on bool) func(*Resolver) {
	return func(r *Resolver) {
		r.noConcurrency = on
	}
}

// Observe sets an observer that is told of references that do not resolve (eg for metrics)
func Observe(o Observer) func(*Resolver) {
	return func(r *Resolver) {
		r.observer = o
	}
}
