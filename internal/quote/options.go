package quote

// NextOptionID returns the first letter id no option in opts uses: A, B, C...
// After Z it continues with AA, AB and so on.
func NextOptionID(opts []Option) string {
	used := make(map[string]bool, len(opts))
	for _, opt := range opts {
		used[opt.ID] = true
	}
	for n := 0; ; n++ {
		if id := optionLabel(n); !used[id] {
			return id
		}
	}
}

func optionLabel(n int) string {
	label := ""
	for n++; n > 0; n = (n - 1) / 26 {
		label = string(rune('A'+(n-1)%26)) + label
	}
	return label
}

// DuplicateOption appends a copy of the option with the given id. Item ids of
// the copy are produced by newItemID.
func DuplicateOption(opts []Option, id string, newItemID func() string) []Option {
	out := make([]Option, len(opts), len(opts)+1)
	copy(out, opts)

	for _, opt := range opts {
		if opt.ID != id {
			continue
		}

		dup := opt
		dup.ID = NextOptionID(opts)
		dup.Title = opt.Title + " (עותק)"
		dup.Collapsed = false
		dup.Items = make(Items, len(opt.Items))
		for i, item := range opt.Items {
			item.ID = newItemID()
			dup.Items[i] = item
		}
		return append(out, dup)
	}
	return out
}

// RemoveOption drops the option with the given id.
func RemoveOption(opts []Option, id string) []Option {
	out := make([]Option, 0, len(opts))
	for _, opt := range opts {
		if opt.ID != id {
			out = append(out, opt)
		}
	}
	return out
}

// UpdateOption applies fn to the option with the given id and reports whether
// it was found.
func UpdateOption(opts []Option, id string, fn func(Option) Option) ([]Option, bool) {
	out := make([]Option, len(opts))
	copy(out, opts)
	for i, opt := range out {
		if opt.ID == id {
			out[i] = fn(opt)
			return out, true
		}
	}
	return out, false
}

// Relevant returns the options that are not flagged irrelevant.
func Relevant(opts []Option) []Option {
	out := make([]Option, 0, len(opts))
	for _, opt := range opts {
		if !opt.Irrelevant {
			out = append(out, opt)
		}
	}
	return out
}
