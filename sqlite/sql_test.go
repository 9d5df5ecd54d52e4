package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

func TestHighScoresRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	records, err := LoadHighScores(db)
	if err != nil || len(records) != 0 {
		t.Fatalf("fresh table: %v %v", records, err)
	}

	want := []structs.Record{{Score: 9, Timestamp: 1}, {Score: 3, Timestamp: 2}, {Score: 0, Timestamp: structs.NoTimestamp}}
	if err := SaveHighScores(db, want); err != nil {
		t.Fatalf("SaveHighScores: %v", err)
	}
	// 再保存一次 旧数据被整体替换
	if err := SaveHighScores(db, want[:2]); err != nil {
		t.Fatalf("SaveHighScores: %v", err)
	}
	got, err := LoadHighScores(db)
	if err != nil {
		t.Fatalf("LoadHighScores: %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v", got)
	}

	if err := ClearHighScores(db); err != nil {
		t.Fatalf("ClearHighScores: %v", err)
	}
	if got, _ := LoadHighScores(db); len(got) != 0 {
		t.Fatalf("records left after clear: %+v", got)
	}
}
