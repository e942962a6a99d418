package stream

// dedupSet remembers which record-id+operation tokens have already been
// broadcast so a redelivered change event is not sent twice. It is a memory
// bound, not a correctness mechanism: once the set grows past its limit it is
// cleared wholesale, so events older than the reset can be delivered again.
type dedupSet struct {
	seen  map[string]struct{}
	limit int
}

const defaultDedupLimit = 1000

func newDedupSet(limit int) *dedupSet {
	if limit <= 0 {
		limit = defaultDedupLimit
	}
	return &dedupSet{seen: make(map[string]struct{}), limit: limit}
}

// observe reports whether token was already seen, recording it otherwise.
func (d *dedupSet) observe(token string) bool {
	if _, ok := d.seen[token]; ok {
		return true
	}
	d.seen[token] = struct{}{}
	if len(d.seen) > d.limit {
		d.seen = make(map[string]struct{})
	}
	return false
}
