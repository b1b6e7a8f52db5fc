package section

// Merge applies patch over stored one level deep and returns a new map.
// Keys absent from patch keep their stored value; a key whose patch value
// is nil (JSON null) is removed.  Neither input is modified, and applying
// the same patch twice yields the same result as applying it once.
func Merge(stored, patch map[string]any) map[string]any {
	out := make(map[string]any, len(stored)+len(patch))
	for k, v := range stored {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
