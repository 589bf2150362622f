package upsert

import "testing"

func TestCountAndIDsByRef(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{ID: 1, ExternalRef: "T1", Inserted: true},
		{ID: 2, ExternalRef: "T2", Inserted: false},
		{ID: 3, ExternalRef: "T3", Inserted: true},
	}

	created, updated := Count(rows)
	if created != 2 || updated != 1 {
		t.Fatalf("unexpected counts created=%d updated=%d", created, updated)
	}

	ids := IDsByRef(rows)
	if ids["T2"] != 2 || len(ids) != 3 {
		t.Fatalf("unexpected ids: %+v", ids)
	}
}
