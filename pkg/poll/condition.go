package poll

// Condition is the post-fetch check a waiter registers with the coordinator.
// The zero value is NoCondition: any completed fetch satisfies it.
type Condition struct {
	fn func() bool
}

// NoCondition is satisfied by the next completed fetch, successful or not.
var NoCondition = Condition{}

// Predicate wraps fn as a Condition. A nil fn yields NoCondition.
//
// fn runs with the coordinator's lock held and must not call back into the
// coordinator (Pending, Running, WaitForCondition or Close); doing so
// deadlocks.
func Predicate(fn func() bool) Condition {
	return Condition{fn: fn}
}

// Conditioned reports whether the condition carries a predicate.
func (c Condition) Conditioned() bool {
	return c.fn != nil
}

func (c Condition) met() bool {
	if c.fn == nil {
		return true
	}
	return c.fn()
}
