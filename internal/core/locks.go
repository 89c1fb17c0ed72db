package core

import "packsmith/internal/types"

// EvaluateLocks reports whether any lock holds for element and returns the
// text of the first one that does. Locks are checked in declaration order.
func EvaluateLocks(locks []types.Lock, element types.Element, value any) (bool, string) {
	for _, lock := range locks {
		if Evaluate(lock.Condition, element, value) {
			return true, lock.Text
		}
	}
	return false, ""
}
