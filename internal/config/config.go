package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	Database    DatabaseConfig   `json:"database"`
	LogConfig   logger.LogConfig `json:"log_config"`
	AI          AIConfig         `json:"ai"`
	Chunking    ChunkingConfig   `json:"chunking"`
	Retrieval   RetrievalConfig  `json:"retrieval"`
	Archive     ArchiveConfig    `json:"archive"`
	Audit       AuditConfig      `json:"audit"`
	CORSOrigins []string         `json:"cors_origins"`
	RateLimitMS int              `json:"rate_limit_ms"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIConfig struct {
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	EmbedModel string      `json:"embed_model"`
	EmbedDim   int         `json:"embed_dim"`
	EmbedCache int         `json:"embed_cache"`
	Timeout    int         `json:"timeout"`
	Data       interface{} `json:"data"`
}

type ChunkingConfig struct {
	Size    int `json:"size"`
	Overlap int `json:"overlap"`
}

type RetrievalConfig struct {
	TopK   int `json:"top_k"`
	ProbeK int `json:"probe_k"`
}

// ArchiveConfig configures optional raw-upload archiving. An empty type
// disables it.
type ArchiveConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AuditConfig struct {
	RetentionDays int    `json:"retention_days"`
	CleanupSpec   string `json:"cleanup_spec"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database.dsn or database.host/db_name is required")
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.EmbedDim == 0 {
		cfg.AI.EmbedDim = 768
	}
	if cfg.AI.EmbedCache == 0 {
		cfg.AI.EmbedCache = 2048
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 3000
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 500
	}
	if cfg.Chunking.Overlap >= cfg.Chunking.Size {
		return nil, fmt.Errorf("chunking.overlap must be smaller than chunking.size")
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.ProbeK == 0 {
		cfg.Retrieval.ProbeK = 1
	}
	if cfg.Retrieval.TopK < 1 || cfg.Retrieval.ProbeK < 1 {
		return nil, fmt.Errorf("retrieval.top_k and retrieval.probe_k must be positive")
	}
	if cfg.Audit.CleanupSpec == "" {
		cfg.Audit.CleanupSpec = "30 3 * * *"
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return &cfg, nil
}
