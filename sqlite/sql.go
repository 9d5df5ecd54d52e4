package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/hoshinonyaruko/snake-grid/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createHighScoresTableSQL = `
CREATE TABLE IF NOT EXISTS HighScores (
    Rank INTEGER PRIMARY KEY,
    Score INTEGER NOT NULL,
    Timestamp INTEGER NOT NULL
);
`

const createHighScoresIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_highscore_score ON HighScores (Score);
`

// Open 打开分数数据库并建表
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("error executing SQL statement: %s: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	if err := executeSQL(db, createHighScoresTableSQL); err != nil {
		return err
	}
	return executeSQL(db, createHighScoresIndexSQL)
}

// LoadHighScores 按名次读取全部记录
func LoadHighScores(db *sql.DB) ([]structs.Record, error) {
	rows, err := db.Query("SELECT Score, Timestamp FROM HighScores ORDER BY Rank")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []structs.Record
	for rows.Next() {
		var r structs.Record
		if err := rows.Scan(&r.Score, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveHighScores 在一个事务里整体替换榜单
func SaveHighScores(db *sql.DB, records []structs.Record) error {
	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM HighScores"); err != nil {
		tx.Rollback()
		return err
	}

	for rank, r := range records {
		_, err = tx.Exec("INSERT INTO HighScores (Rank, Score, Timestamp) VALUES (?, ?, ?)", rank, r.Score, r.Timestamp)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	// 提交事务
	return tx.Commit()
}

// ClearHighScores 删除全部记录
func ClearHighScores(db *sql.DB) error {
	_, err := db.Exec("DELETE FROM HighScores")
	return err
}
