package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"readscore/config"
	"readscore/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var (
	keySchemaVersion = []byte("schema_version")
	keyConfigHash    = []byte("config_hash")
)

// SchemaInfo stores schema version and configuration hash.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}

		versionData := b.Get(keySchemaVersion)
		if versionData != nil {
			if err := json.Unmarshal(versionData, &info.Version); err != nil {
				info.Version = 1
			}
		}

		hashData := b.Get(keyConfigHash)
		if hashData != nil {
			info.ConfigHash = string(hashData)
		}

		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)

		versionData, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		if err := b.Put(keySchemaVersion, versionData); err != nil {
			return err
		}

		return b.Put(keyConfigHash, []byte(info.ConfigHash))
	})
}

// ComputeConfigHash hashes the configuration that changes analysis results.
// A different hash means stored reports are stale.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		LangProvider      string `json:"lang_provider"`
		LangFixed         string `json:"lang_fixed"`
		RussianCode       string `json:"russian_code"`
		EnglishCode       string `json:"english_code"`
		TranslateProvider string `json:"translate_provider"`
		TranslateTarget   string `json:"translate_target"`
		SentimentProvider string `json:"sentiment_provider"`
		OpenAIModel       string `json:"openai_model"`
		ClaudeModel       string `json:"claude_model"`
	}{
		LangProvider:      cfg.Language.Provider,
		LangFixed:         cfg.Language.Fixed,
		RussianCode:       cfg.Language.RussianCode,
		EnglishCode:       cfg.Language.EnglishCode,
		TranslateProvider: cfg.Translation.Provider,
		TranslateTarget:   cfg.Translation.Target,
		SentimentProvider: cfg.Sentiment.Provider,
		OpenAIModel:       cfg.LLM.OpenAI.Model,
		ClaudeModel:       cfg.LLM.Claude.Model,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks if migration or rebuild is needed.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	if info.Version == 0 {
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	} else if info.Version < CurrentSchemaVersion {
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	} else if info.Version > CurrentSchemaVersion {
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	newHash := ComputeConfigHash(cfg)
	if info.ConfigHash != "" && info.ConfigHash != newHash {
		result.NeedsRebuild = true
		result.Reason = "analysis configuration changed"
	}

	return result, nil
}

// Migrate performs any necessary schema migrations.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return err
	}

	for v := info.Version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	newInfo := &SchemaInfo{
		Version:    CurrentSchemaVersion,
		ConfigHash: ComputeConfigHash(cfg),
	}
	return s.SetSchemaInfo(newInfo)
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return nil
	case from == 1 && to == 2:
		// v2 added the source index; rebuild it from the stored reports.
		return s.db.Update(func(tx *bbolt.Tx) error {
			sources, err := tx.CreateBucketIfNotExists(bucketSources)
			if err != nil {
				return err
			}
			latest := make(map[string]domain.Report)
			err = tx.Bucket(bucketReports).ForEach(func(k, v []byte) error {
				var r domain.Report
				if err := json.Unmarshal(v, &r); err != nil || r.Source == "" {
					return nil
				}
				if cur, ok := latest[r.Source]; !ok || r.CreatedAt.After(cur.CreatedAt) {
					latest[r.Source] = r
				}
				return nil
			})
			if err != nil {
				return err
			}
			for source, r := range latest {
				if err := sources.Put([]byte(source), []byte(r.ID)); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return nil
	}
}

// Clear removes all reports (for rebuild).
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketReports, bucketSources} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Prepare runs the migration check and clears stale reports. It returns a
// human-readable note when something was done.
func (s *BoltStore) Prepare(cfg *config.Config) (string, error) {
	result, err := s.CheckMigration(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to check migration: %w", err)
	}

	note := ""
	if result.NeedsRebuild {
		if err := s.Clear(); err != nil {
			return "", fmt.Errorf("failed to clear history: %w", err)
		}
		note = "history cleared: " + result.Reason
	}
	if result.NeedsRebuild || result.NeedsMigration {
		if err := s.Migrate(cfg); err != nil {
			return "", fmt.Errorf("migration failed: %w", err)
		}
	}
	return note, nil
}
