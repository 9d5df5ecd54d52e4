package structs

import (
	"slices"
	"time"
)

// MaxRecords 高分榜最多保留的记录数
const MaxRecords = 10

// NoTimestamp 占位记录没有时间
const NoTimestamp int64 = -1

// Record 一条高分记录
type Record struct {
	Score     int   `json:"score"`     // 分数 即蛇的长度
	Timestamp int64 `json:"timestamp"` // 毫秒时间戳 NoTimestamp表示没有时间
}

// HasTimestamp 记录是否带有时间
func (r Record) HasTimestamp() bool {
	return r.Timestamp >= 0
}

// DateString 展示用的时间字符串
func (r Record) DateString() string {
	if !r.HasTimestamp() {
		return "NO_DATE"
	}
	return time.UnixMilli(r.Timestamp).Format("15:04:05 01-02-2006")
}

// CompareRecords 分数高的在前 同分时间早的在前 没有时间的排在有时间的之后
func CompareRecords(a, b Record) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	switch {
	case a.HasTimestamp() && b.HasTimestamp():
		if a.Timestamp < b.Timestamp {
			return -1
		}
		if a.Timestamp > b.Timestamp {
			return 1
		}
		return 0
	case a.HasTimestamp():
		return -1
	case b.HasTimestamp():
		return 1
	}
	return 0
}

// SortRecords 原地排序
func SortRecords(records []Record) {
	slices.SortStableFunc(records, CompareRecords)
}

// Qualifies 榜单不满10条 或者分数严格高于榜上最低分
func Qualifies(score int, records []Record) bool {
	if len(records) < MaxRecords {
		return true
	}
	lowest := records[0].Score
	for _, r := range records[1:] {
		if r.Score < lowest {
			lowest = r.Score
		}
	}
	return score > lowest
}

// PlaceholderRecords 没有存档时使用的零分记录
func PlaceholderRecords() []Record {
	records := make([]Record, MaxRecords)
	for i := range records {
		records[i] = Record{Score: 0, Timestamp: NoTimestamp}
	}
	return records
}

// OccupantKind 占据格子的对象类型
type OccupantKind string

const (
	KindSnake OccupantKind = "snake"
	KindFood  OccupantKind = "food"
)

// CellView 快照中的一个被占据格子 绘制所需的信息都在这里
type CellView struct {
	ID       int          `json:"id"`
	X        int          `json:"x"`        // 本地x坐标
	Y        int          `json:"y"`        // 本地y坐标
	Kind     OccupantKind `json:"kind"`     // snake 或 food
	PlayerID int          `json:"player_id,omitempty"`
	Head     bool         `json:"head,omitempty"`
	DrawX    int          `json:"draw_x"`   // 像素坐标加偏移
	DrawY    int          `json:"draw_y"`
	Size     int          `json:"size"`     // 绘制边长
	Color    string       `json:"color"`
}

// PlayerView 一条蛇的概况
type PlayerView struct {
	PlayerID int    `json:"player_id"`
	Length   int    `json:"length"`
	Heading  string `json:"heading"`
	HeadID   int    `json:"head_id"`
}

// Status 游戏进行状态
type Status struct {
	TwoPlayer    bool   `json:"two_player"`
	Tick         int64  `json:"tick"`
	GameOver     bool   `json:"game_over"`
	LosingPlayer int    `json:"losing_player"` // 0 表示游戏还在进行
	Score        int    `json:"score"`
	Summary      string `json:"summary,omitempty"`
}

// Snapshot 一次tick之后的完整画面数据
type Snapshot struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	CellSize int          `json:"cell_size"`
	Status   Status       `json:"status"`
	Players  []PlayerView `json:"players"`
	Cells    []CellView   `json:"cells"`
}

// SessionInfo 会话的对外描述
type SessionInfo struct {
	ID           string `json:"session_id"`
	Started      bool   `json:"started"`
	Paused       bool   `json:"paused"`
	NewHighScore bool   `json:"new_high_score"`
	Status       Status `json:"status"`
}
