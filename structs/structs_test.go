package structs

import "testing"

func TestSortRecords(t *testing.T) {
	records := []Record{
		{Score: 5, Timestamp: NoTimestamp},
		{Score: 7, Timestamp: 300},
		{Score: 5, Timestamp: 200},
		{Score: 5, Timestamp: 100},
		{Score: 9, Timestamp: NoTimestamp},
	}
	SortRecords(records)
	want := []Record{
		{Score: 9, Timestamp: NoTimestamp},
		{Score: 7, Timestamp: 300},
		{Score: 5, Timestamp: 100},
		{Score: 5, Timestamp: 200},
		{Score: 5, Timestamp: NoTimestamp},
	}
	for i := range want {
		if records[i] != want[i] {
			t.Fatalf("records[%d] = %+v, want %+v (all: %+v)", i, records[i], want[i], records)
		}
	}
}

func TestPlaceholderRecords(t *testing.T) {
	records := PlaceholderRecords()
	if len(records) != MaxRecords {
		t.Fatalf("got %d placeholders", len(records))
	}
	for _, r := range records {
		if r.Score != 0 || r.HasTimestamp() {
			t.Fatalf("unexpected placeholder %+v", r)
		}
		if r.DateString() != "NO_DATE" {
			t.Fatalf("DateString = %q", r.DateString())
		}
	}
}

func TestQualifies(t *testing.T) {
	full := make([]Record, 0, MaxRecords)
	for score := 50; score >= 10; score -= 4 {
		full = append(full, Record{Score: score, Timestamp: int64(score)})
	}
	if len(full) != MaxRecords {
		t.Fatalf("fixture has %d records", len(full))
	}
	cases := []struct {
		name    string
		score   int
		records []Record
		want    bool
	}{
		{"beats lowest", 51, full, true},
		{"ties lowest", 14, full, false},
		{"above lowest", 15, full, true},
		{"below all", 1, full, false},
		{"short list", 0, full[:9], true},
		{"placeholders", 1, PlaceholderRecords(), true},
		{"zero on placeholders", 0, PlaceholderRecords(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Qualifies(tc.score, tc.records); got != tc.want {
				t.Fatalf("Qualifies(%d) = %v, want %v", tc.score, got, tc.want)
			}
		})
	}
}
