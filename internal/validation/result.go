// Package validation holds the bounds checks for phase allocations and
// hour change requests. Validators never mutate state and never panic on
// user input: they return a Result distinguishing blocking errors from
// advisory warnings. At most one error is reported, in rule order.
package validation

// Result is the outcome of a single validation run.
type Result struct {
	Valid   bool
	Err     string // blocking; first failing rule only
	Warning string // advisory; never blocks the action
}

func ok() Result {
	return Result{Valid: true}
}

func okWithWarning(warning string) Result {
	return Result{Valid: true, Warning: warning}
}

func fail(err string) Result {
	return Result{Err: err}
}
