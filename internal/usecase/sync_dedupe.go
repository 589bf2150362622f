package usecase

// Dedupe keeps the first record for every key and preserves input order.
// Records with an empty key are kept as-is so the mapper can report them.
func Dedupe[T any](records []T, key func(T) string) []T {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]T, 0, len(records))
	for _, record := range records {
		k := key(record)
		if k != "" {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, record)
	}
	return out
}
