package model

// FormEntry is one composite path and its submitted text.
type FormEntry struct {
	Key   string
	Value string
}

// Form is an ordered mapping of composite paths to submitted text. Keys are
// unique; setting an existing key replaces its value but keeps its position.
// The zero Form is empty and ready to use.
type Form struct {
	entries []FormEntry
	index   map[string]int
}

// NewForm builds a Form from entries in order.
func NewForm(entries ...FormEntry) Form {
	var f Form
	for _, e := range entries {
		f.Set(e.Key, e.Value)
	}
	return f
}

// FormOf builds a Form from alternating key/value arguments. A trailing key
// without a value maps to the empty string.
func FormOf(pairs ...string) Form {
	var f Form
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		f.Set(pairs[i], value)
	}
	return f
}

// Set stores value under key.
func (f *Form) Set(key, value string) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[key]; ok {
		f.entries[i].Value = value
		return
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, FormEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (f Form) Get(key string) (string, bool) {
	i, ok := f.index[key]
	if !ok {
		return "", false
	}
	return f.entries[i].Value, true
}

// Has reports whether key is present.
func (f Form) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Len returns the number of entries.
func (f Form) Len() int { return len(f.entries) }

// Entries returns a copy of the entries in order.
func (f Form) Entries() []FormEntry {
	out := make([]FormEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Keys returns the keys in order.
func (f Form) Keys() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Key)
	}
	return out
}

// Clone returns an independent copy of f.
func (f Form) Clone() Form {
	return NewForm(f.entries...)
}

// Equal reports whether both forms hold the same entries in the same order.
func (f Form) Equal(other Form) bool {
	if len(f.entries) != len(other.entries) {
		return false
	}
	for i := range f.entries {
		if f.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}
