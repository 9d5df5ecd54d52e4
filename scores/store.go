// 高分榜 首选位置写不进去时退到备用位置 都读不到时给出10条零分记录
package scores

import (
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-grid/sqlite"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

// FallbackPath 备用位置 放在系统临时目录
func FallbackPath() string {
	return filepath.Join(os.TempDir(), "snake-grid", "highscores.db")
}

// Store 有序且最多10条的高分记录
type Store struct {
	mu        sync.Mutex
	locations []string
	records   []structs.Record
}

// New 按顺序给出存档位置 第一个是首选位置
func New(locations ...string) *Store {
	s := &Store{}
	for _, loc := range locations {
		if loc != "" {
			s.locations = append(s.locations, loc)
		}
	}
	s.Reload()
	return s
}

// Reload 从磁盘重新读取榜单
func (s *Store) Reload() []structs.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.read()
	return slices.Clone(s.records)
}

// List 当前榜单的副本
func (s *Store) List() []structs.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// Submit 分数能上榜时插入 重新排序 挤掉最后一名并立即保存
func (s *Store) Submit(score int, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !structs.Qualifies(score, s.records) {
		return false
	}
	s.records = append(s.records, structs.Record{Score: score, Timestamp: at.UnixMilli()})
	s.records = normalize(s.records)
	s.write()
	return true
}

// Clear 删除所有位置的存档 然后重新读取 得到占位记录
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loc := range s.locations {
		if _, err := os.Stat(loc); os.IsNotExist(err) {
			continue
		}
		db, err := sqlite.Open(loc)
		if err != nil {
			log.Printf("high scores: open %s: %v", loc, err)
			continue
		}
		if err := sqlite.ClearHighScores(db); err != nil {
			log.Printf("high scores: clear %s: %v", loc, err)
		}
		db.Close()
	}
	s.records = s.read()
}

func (s *Store) read() []structs.Record {
	for _, loc := range s.locations {
		if _, err := os.Stat(loc); err != nil {
			continue
		}
		db, err := sqlite.Open(loc)
		if err != nil {
			log.Printf("high scores: open %s: %v", loc, err)
			continue
		}
		records, err := sqlite.LoadHighScores(db)
		db.Close()
		if err != nil {
			log.Printf("high scores: read %s: %v", loc, err)
			continue
		}
		if len(records) == 0 {
			continue
		}
		return normalize(records)
	}
	return structs.PlaceholderRecords()
}

func (s *Store) write() {
	for _, loc := range s.locations {
		if err := os.MkdirAll(filepath.Dir(loc), 0755); err != nil {
			log.Printf("high scores: create folder for %s: %v", loc, err)
			continue
		}
		db, err := sqlite.Open(loc)
		if err != nil {
			log.Printf("high scores: open %s: %v", loc, err)
			continue
		}
		err = sqlite.SaveHighScores(db, s.records)
		db.Close()
		if err != nil {
			log.Printf("high scores: write %s: %v", loc, err)
			continue
		}
		return
	}
	log.Printf("high scores: no writable location, keeping scores in memory")
}

// normalize 排序 截断到10条 不足时补零分记录
func normalize(records []structs.Record) []structs.Record {
	structs.SortRecords(records)
	if len(records) > structs.MaxRecords {
		records = records[:structs.MaxRecords]
	}
	for len(records) < structs.MaxRecords {
		records = append(records, structs.Record{Score: 0, Timestamp: structs.NoTimestamp})
	}
	return records
}
