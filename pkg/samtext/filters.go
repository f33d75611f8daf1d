package samtext

// A Filter receives one alignment record which it may mutate in place.
// It returns true to keep the record and false to drop it from the
// output.
type Filter func(*Record) bool

// CapMapq rewrites MAPQ values equal to from. The usual fix is
// 255 -> 60: downstream callers reject the "unavailable" marker some
// aligners emit.
func CapMapq(from, to int) Filter {
	return func(r *Record) bool {
		if r.MapQ == from {
			r.MapQ = to
		}
		return true
	}
}

// ZeroMapqUnmapped sets MAPQ to 0 on records whose unmapped FLAG bit is
// set.
func ZeroMapqUnmapped() Filter {
	return func(r *Record) bool {
		if r.Unmapped() {
			r.MapQ = 0
		}
		return true
	}
}

// DropUnmapped removes unmapped records.
func DropUnmapped() Filter {
	return func(r *Record) bool {
		return !r.Unmapped()
	}
}
