package tasks

import "time"

type record interface {
	Task | Activity
}

type recordPtr[T record] interface {
	*T
	key() string
	label() string
	state() *Completion
}

// addRecord prepends r.
func addRecord[T record](list []T, r T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, r)
	return append(out, list...)
}

// replaceRecord swaps in r for the element with the same id.
func replaceRecord[T record, P recordPtr[T]](list []T, r T) ([]T, bool) {
	id := P(&r).key()
	out := make([]T, len(list))
	copy(out, list)
	for i := range out {
		if P(&out[i]).key() == id {
			out[i] = r
			return out, true
		}
	}
	return list, false
}

func removeRecord[T record, P recordPtr[T]](list []T, id string) ([]T, *T) {
	for i := range list {
		if P(&list[i]).key() == id {
			removed := list[i]
			out := make([]T, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), &removed
		}
	}
	return list, nil
}

// toggleRecord flips completion on the element with id. completed reports
// the new state; found is false when no element matched.
func toggleRecord[T record, P recordPtr[T]](list []T, id string, now time.Time) (out []T, toggled T, completed, found bool) {
	out = make([]T, len(list))
	copy(out, list)
	for i := range out {
		p := P(&out[i])
		if p.key() != id {
			continue
		}
		completed = p.state().toggle(now)
		return out, out[i], completed, true
	}
	return list, toggled, false, false
}

// clearCompleted drops every completed element.
func clearCompleted[T record, P recordPtr[T]](list []T) ([]T, int) {
	return keep[T, P](list, func(c *Completion) bool { return !c.Completed })
}

// purgeExpired drops elements completed more than GraceWindow before now.
func purgeExpired[T record, P recordPtr[T]](list []T, now time.Time) ([]T, int) {
	return keep[T, P](list, func(c *Completion) bool { return !c.expired(now) })
}

func keep[T record, P recordPtr[T]](list []T, pred func(*Completion) bool) ([]T, int) {
	out := make([]T, 0, len(list))
	for i := range list {
		if pred(P(&list[i]).state()) {
			out = append(out, list[i])
		}
	}
	return out, len(list) - len(out)
}
