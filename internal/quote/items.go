package quote

// Items is the ordered list of rows inside an option. Every method returns a
// new slice and leaves the receiver untouched.
type Items []LineItem

func (it Items) clone() Items {
	out := make(Items, len(it))
	copy(out, it)
	return out
}

// Index returns the position of the row with the given id, or -1.
func (it Items) Index(id string) int {
	for i, item := range it {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Append returns the sequence with item added at the end.
func (it Items) Append(item LineItem) Items {
	out := make(Items, 0, len(it)+1)
	out = append(out, it...)
	return append(out, item)
}

// Move relocates the row at from so that it ends up at index to.
// Out of range indexes leave the sequence unchanged.
func (it Items) Move(from, to int) Items {
	out := it.clone()
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}

// Remove drops the row with the given id.
func (it Items) Remove(id string) Items {
	out := make(Items, 0, len(it))
	for _, item := range it {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Duplicate inserts a copy of the row with the given id right after it,
// using newID for the copy.
func (it Items) Duplicate(id, newID string) Items {
	idx := it.Index(id)
	if idx == -1 {
		return it.clone()
	}

	dup := it[idx]
	dup.ID = newID

	out := make(Items, 0, len(it)+1)
	out = append(out, it[:idx+1]...)
	out = append(out, dup)
	return append(out, it[idx+1:]...)
}

// InsertCustom adds an empty editable product row after the last product row,
// ahead of all packaging rows.
func (it Items) InsertCustom(newID string) Items {
	custom := LineItem{
		ID:             newID,
		Category:       CategoryProduct,
		UnitsPerCarton: 1,
		Editable:       true,
		Custom:         true,
	}

	out := make(Items, 0, len(it)+1)
	for _, item := range it {
		if !item.IsPackaging() {
			out = append(out, item)
		}
	}
	out = append(out, custom)
	for _, item := range it {
		if item.IsPackaging() {
			out = append(out, item)
		}
	}
	return out
}
