package main

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Engine               string        `json:"engine"` // "minimax" or "mcts"
	SearchDepth          int           `json:"search_depth"`
	TopCandidates        int           `json:"top_candidates"`
	TimeoutTurnMs        int           `json:"timeout_turn_ms"`
	TimeoutMatchMs       int           `json:"timeout_match_ms"`
	MaxMemoryBytes       int64         `json:"max_memory_bytes"`
	TtSize               int           `json:"tt_size"`
	TtEnablePersistence  bool          `json:"tt_enable_persistence"`
	TtPersistencePath    string        `json:"tt_persistence_path"`
	MctsIterations       int           `json:"mcts_iterations"`
	MctsDeadlineCheckN   int           `json:"mcts_deadline_check_every"`
	MctsExploration      float64       `json:"mcts_exploration"`
	MctsPositionalWeight float64       `json:"mcts_positional_weight"`
	HeatmapCenterRounds  int           `json:"heatmap_center_rounds"`
	LogSearchStats       bool          `json:"log_search_stats"`
	DebugServerEnabled   bool          `json:"debug_server_enabled"`
	DebugServerAddr      string        `json:"debug_server_addr"`
	Weights              ThreatWeights `json:"weights"`
}

// ThreatWeights is the static evaluation table. The five weight dominates
// every other term combined; winScore sits between five and the four family.
type ThreatWeights struct {
	Five               int `json:"five"`
	StraightFour       int `json:"straight_four"`
	StraightPokedFour  int `json:"straight_poked_four"`
	BlockedFour        int `json:"blocked_four"`
	BlockedPokedFour   int `json:"blocked_poked_four"`
	StraightThree      int `json:"straight_three"`
	StraightPokedThree int `json:"straight_poked_three"`
	BlockedThree       int `json:"blocked_three"`
	BlockedPokedThree  int `json:"blocked_poked_three"`
	StraightTwo        int `json:"straight_two"`
	StraightPokedTwo   int `json:"straight_poked_two"`
	BlockedTwo         int `json:"blocked_two"`
	BlockedPokedTwo    int `json:"blocked_poked_two"`
}

const winScore = 100_000_000

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		Engine:        "minimax",
		SearchDepth:   5,
		TopCandidates: 4,

		// Time budget per TURN; the Gomocup manager overrides it via
		// INFO timeout_turn. Zero means unbounded.
		TimeoutTurnMs:  0,
		TimeoutMatchMs: 0,
		MaxMemoryBytes: 0,

		TtSize:              1 << 20,
		TtEnablePersistence: false,
		TtPersistencePath:   "",

		MctsIterations:       10000,
		MctsDeadlineCheckN:   256,
		MctsExploration:      1.41421356, // sqrt(2)
		MctsPositionalWeight: 1.0,

		HeatmapCenterRounds: 8,

		LogSearchStats:     false,
		DebugServerEnabled: false,
		DebugServerAddr:    ":8080",

		Weights: DefaultThreatWeights(),
	}
}

func DefaultThreatWeights() ThreatWeights {
	return ThreatWeights{
		Five:               1_000_000_000,
		StraightFour:       100_000,
		StraightPokedFour:  20_000,
		BlockedFour:        15_000,
		BlockedPokedFour:   15_000,
		StraightThree:      5_000,
		StraightPokedThree: 3_000,
		BlockedThree:       2_500,
		BlockedPokedThree:  2_000,
		StraightTwo:        1_200,
		StraightPokedTwo:   800,
		BlockedTwo:         500,
		BlockedPokedTwo:    300,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// Mutate applies an in-place edit under the write lock, for callers that
// adjust a single field.
func (c *ConfigStore) Mutate(fn func(*Config)) {
	c.mu.Lock()
	fn(&c.config)
	c.mu.Unlock()
}

// LoadConfigFromEnv layers GOMOKU_* environment variables (and a local .env
// file, if present) on top of the defaults.
func LoadConfigFromEnv() Config {
	_ = godotenv.Load()
	config := DefaultConfig()
	if v := os.Getenv("GOMOKU_ENGINE"); v != "" {
		config.Engine = v
	}
	if v, ok := envInt("GOMOKU_SEARCH_DEPTH"); ok {
		config.SearchDepth = v
	}
	if v, ok := envInt("GOMOKU_TOP_CANDIDATES"); ok {
		config.TopCandidates = v
	}
	if v, ok := envInt("GOMOKU_TIMEOUT_TURN_MS"); ok {
		config.TimeoutTurnMs = v
	}
	if v, ok := envInt("GOMOKU_TT_SIZE"); ok {
		config.TtSize = v
	}
	if v, ok := envInt("GOMOKU_MCTS_ITERATIONS"); ok {
		config.MctsIterations = v
	}
	if v := os.Getenv("GOMOKU_TT_PERSISTENCE_PATH"); v != "" {
		config.TtEnablePersistence = true
		config.TtPersistencePath = v
	}
	if v, ok := envBool("GOMOKU_LOG_SEARCH_STATS"); ok {
		config.LogSearchStats = v
	}
	if v, ok := envBool("GOMOKU_DEBUG_SERVER"); ok {
		config.DebugServerEnabled = v
	}
	if v := os.Getenv("GOMOKU_DEBUG_SERVER_ADDR"); v != "" {
		config.DebugServerAddr = v
	}
	return config
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
