package orders

import "time"

// Tally counts orders per effective status.
type Tally map[Status]int

// BuildTally counts the effective status of every order at now.
func BuildTally(list []Order, now time.Time) Tally {
	t := Tally{}
	for _, o := range list {
		t[o.Effective(now).Status()]++
	}
	return t
}

// Move accounts for one order changing from prior to next: next is
// incremented, prior is decremented but never below zero.
func (t Tally) Move(prior, next Status) {
	t[next]++
	if n := t[prior] - 1; n > 0 {
		t[prior] = n
	} else {
		t[prior] = 0
	}
}

// Total is the sum of all counts.
func (t Tally) Total() int {
	var n int
	for _, c := range t {
		n += c
	}
	return n
}

// Clone returns an independent copy.
func (t Tally) Clone() Tally {
	out := make(Tally, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Counts converts the tally to plain string keys.
func (t Tally) Counts() map[string]int {
	out := make(map[string]int, len(t))
	for k, v := range t {
		out[string(k)] = v
	}
	return out
}
