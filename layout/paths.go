package layout

import "strconv"

// fieldPath returns path extended by name without aliasing path.
func fieldPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}

// indexPath renders element i as a suffix of the last segment: items[2].
func indexPath(path []string, i int) []string {
	idx := "[" + strconv.Itoa(i) + "]"
	if len(path) == 0 {
		return []string{idx}
	}
	out := make([]string, len(path))
	copy(out, path)
	out[len(out)-1] += idx
	return out
}

// memberPath names a struct or tuple member.
func memberPath(path []string, name string, i int) []string {
	if name == "" {
		return indexPath(path, i)
	}
	return fieldPath(path, name)
}
