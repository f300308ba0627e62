package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.RequestTimeoutSecs == 0 {
		cfg.Server.RequestTimeoutSecs = 60
	}
	if cfg.Storage.EmbeddingsPath == "" {
		cfg.Storage.EmbeddingsPath = "./embeddings.json"
	}
	if cfg.Storage.HistoryPath == "" {
		cfg.Storage.HistoryPath = "./search_history.json"
	}
	if cfg.Storage.ScrapedDir == "" {
		cfg.Storage.ScrapedDir = "./scraped_texts"
	}
	if cfg.Storage.LogDir == "" {
		cfg.Storage.LogDir = "./logs"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "local"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "./models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.OpenAI.BaseURL == "" {
		cfg.Embedding.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.OpenAI.APIKeyEnv == "" {
		cfg.Embedding.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.OpenAI.Model == "" {
		cfg.Embedding.OpenAI.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.OpenAI.TimeoutSecs == 0 {
		cfg.Embedding.OpenAI.TimeoutSecs = 30
	}
	if cfg.Embedding.OpenAI.MaxRetries == 0 {
		cfg.Embedding.OpenAI.MaxRetries = 5
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 50
	}
	if cfg.Chunking.Overlap == nil {
		o := 10
		cfg.Chunking.Overlap = &o
	}
	if cfg.Search.HistoryLimit == 0 {
		cfg.Search.HistoryLimit = 5
	}
	if cfg.Ingest.Pattern == "" {
		cfg.Ingest.Pattern = "*.txt"
	}
	if cfg.Ingest.DebounceMillis == 0 {
		cfg.Ingest.DebounceMillis = 500
	}
	if cfg.Scraper.Limit == 0 {
		cfg.Scraper.Limit = 100
	}
	if cfg.Scraper.TimeoutSecs == 0 {
		cfg.Scraper.TimeoutSecs = 10
	}
	if cfg.Scraper.RequestsPerSecond == 0 {
		cfg.Scraper.RequestsPerSecond = 1
	}
	if cfg.Scraper.UserAgent == "" {
		cfg.Scraper.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
}
