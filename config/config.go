package config

import (
	"encoding/json"
	"os"
	"sync"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	Port            string  `json:"port"`
	CellSize        int     `json:"cellsize"`
	FieldWidth      int     `json:"fieldwidth"`
	FieldHeight     int     `json:"fieldheight"`
	GameplayRate    float64 `json:"gameplayrate"`
	IdleRate        float64 `json:"idlerate"`
	ScoreDB         string  `json:"scoredb"`
	FallbackScoreDB string  `json:"fallbackscoredb"`
}

var (
	instance *AppConfig
	once     sync.Once
	mu       sync.RWMutex
)

// Defaults returns the configuration written on first run
func Defaults() AppConfig {
	return AppConfig{
		Port:         "38870", // Default value
		CellSize:     25,
		FieldWidth:   900,
		FieldHeight:  675,
		GameplayRate: 15,
		IdleRate:     60,
		ScoreDB:      "./highscores.db",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		cfg := Defaults()
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			if err := saveConfig(filePath, &cfg); err != nil {
				panic(err)
			}
		} else {
			if err := loadConfig(filePath, &cfg); err != nil {
				panic(err)
			}
		}
		mu.Lock()
		instance = &cfg
		mu.Unlock()
	})
	return Get()
}

// Get returns a copy of the current configuration
func Get() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		cfg := Defaults()
		return &cfg
	}
	cfg := *instance
	return &cfg
}

// Reload re-reads the file on top of the defaults and swaps the instance
func Reload(filePath string) (*AppConfig, error) {
	cfg := Defaults()
	if err := loadConfig(filePath, &cfg); err != nil {
		return nil, err
	}
	mu.Lock()
	instance = &cfg
	mu.Unlock()
	return Get(), nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	return decoder.Decode(cfg)
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Get()
	switch key {
	case "port":
		return cfg.Port
	case "cellsize":
		return cfg.CellSize
	case "fieldwidth":
		return cfg.FieldWidth
	case "fieldheight":
		return cfg.FieldHeight
	case "gameplayrate":
		return cfg.GameplayRate
	case "idlerate":
		return cfg.IdleRate
	case "scoredb":
		return cfg.ScoreDB
	case "fallbackscoredb":
		return cfg.FallbackScoreDB
	default:
		return ""
	}
}
