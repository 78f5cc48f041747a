// Package config reads the pipeline's environment configuration once at
// startup. A local .env file is honored when present, matching how the
// pipeline is run in development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every environment-provided value the pipeline reads.
type Config struct {
	// Generator.
	GeminiAPIKey    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	Provider        string
	Model           string

	// Vector index.
	IndexPath      string
	Collection     string
	EmbeddingModel string

	// Pipeline directories.
	SeedDir     string
	TaxonomyDir string
	OutputDir   string

	// Generation targets.
	MinComplexity  int
	TargetPatient  string
	TargetFriction string
	Exemplars      int
	BatchSize      int

	// Downstream handoff.
	DatabaseURL string
	BatchID     string
}

// Load reads the environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		Provider:        envStr("CASEFORGE_PROVIDER", "google"),
		Model:           envStr("CASEFORGE_MODEL", "gemini-3-flash-preview"),

		IndexPath:      envStr("INDEX_PATH", "./data/seed_index"),
		Collection:     envStr("COLLECTION_NAME", "seed_cases"),
		EmbeddingModel: envStr("EMBEDDING_MODEL", "text-embedding-004"),

		SeedDir:     envStr("SEED_DIR", "./data/seed_cases"),
		TaxonomyDir: envStr("TAXONOMIES_DIR", "./data/taxonomies"),
		OutputDir:   envStr("OUTPUT_DIR", "./data/synthetic_output"),

		MinComplexity:  envInt("COMPLEXITY_GTE", 4),
		TargetPatient:  envStr("PATIENT_DESC", ""),
		TargetFriction: envStr("FRICTION_BARRIER", ""),
		Exemplars:      envInt("N_EXAMPLES", 2),
		BatchSize:      envInt("BATCH_SIZE", 1),

		DatabaseURL: envStr("DATABASE_URL", ""),
		BatchID:     envStr("BATCH_ID", "synthetic_batch"),
	}
}

// FixedTarget reports whether the run pins explicit target variables rather
// than sampling from the catalogues.
func (c Config) FixedTarget() bool {
	return c.TargetPatient != "" || c.TargetFriction != ""
}

// GeneratorAPIKey returns the credential for the configured provider, or ""
// when it is absent. Absence is a fatal startup condition for the commands
// that call the generator.
func (c Config) GeneratorAPIKey() string {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
