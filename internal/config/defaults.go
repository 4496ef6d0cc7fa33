package config

const (
	defaultChunkSize    = 300
	defaultChunkOverlap = 50
	defaultTopK         = 3
	defaultFuzziness    = 1
	defaultMaxRetries   = 2
	defaultTemperature  = 0.4

	defaultEmbeddingModel  = "text-embedding-004"
	defaultGenerationModel = "gemini-2.0-flash"
	// Gemini's OpenAI-compatible endpoint serves both embeddings and chat.
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultAPIKeyEnv     = "GOOGLE_API_KEY"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeoutSecs == 0 {
		cfg.Server.RequestTimeoutSecs = 60
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}

	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = defaultChunkSize
	}
	if cfg.Chunker.ChunkOverlap == nil {
		o := defaultChunkOverlap
		cfg.Chunker.ChunkOverlap = &o
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = defaultTopK
	}
	if cfg.Retrieval.Fuzziness == nil {
		n := defaultFuzziness
		cfg.Retrieval.Fuzziness = &n
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = defaultEmbeddingModel
	}
	if cfg.Embedding.Provider == "openai" {
		if cfg.Embedding.BaseURL == "" {
			cfg.Embedding.BaseURL = defaultGeminiBaseURL
		}
		if cfg.Embedding.APIKeyEnv == "" {
			cfg.Embedding.APIKeyEnv = defaultAPIKeyEnv
		}
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 30
	}
	if cfg.Embedding.MaxRetries == nil {
		n := defaultMaxRetries
		cfg.Embedding.MaxRetries = &n
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Dimensions == 0 && cfg.Embedding.Provider != "openai" {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}

	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = "openai"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = defaultGenerationModel
	}
	if cfg.Generation.Provider == "openai" && cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Generation.APIKeyEnv == "" {
		switch cfg.Generation.Provider {
		case "anthropic":
			cfg.Generation.APIKeyEnv = "ANTHROPIC_API_KEY"
		case "openrouter":
			cfg.Generation.APIKeyEnv = "OPENROUTER_API_KEY"
		default:
			cfg.Generation.APIKeyEnv = defaultAPIKeyEnv
		}
	}
	if cfg.Generation.Temperature == nil {
		t := defaultTemperature
		cfg.Generation.Temperature = &t
	}
	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = 15000
	}
	if cfg.Generation.TimeoutSecs == 0 {
		cfg.Generation.TimeoutSecs = 60
	}
	if cfg.Generation.MaxRetries == nil {
		n := defaultMaxRetries
		cfg.Generation.MaxRetries = &n
	}

	if cfg.History.DatabasePath == "" {
		cfg.History.DatabasePath = ":memory:"
	}

	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = defaultUserAgent
	}
	if cfg.Fetch.TimeoutSecs == 0 {
		cfg.Fetch.TimeoutSecs = 30
	}
	if cfg.Fetch.MaxBytesMB == 0 {
		cfg.Fetch.MaxBytesMB = 32
	}

	if cfg.Watch.DebounceMS == 0 {
		cfg.Watch.DebounceMS = 500
	}
}
