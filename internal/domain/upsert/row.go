package upsert

// Row is what a bulk upsert reports back for every stored record.
// Inserted is false when the row already existed and was updated in place.
type Row struct {
	ID          int64
	ExternalRef string
	Inserted    bool
}

// Count splits rows into created and updated totals.
func Count(rows []Row) (created, updated int) {
	for _, row := range rows {
		if row.Inserted {
			created++
			continue
		}
		updated++
	}
	return created, updated
}

// IDsByRef indexes rows by external reference.
func IDsByRef(rows []Row) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ExternalRef] = row.ID
	}
	return out
}
