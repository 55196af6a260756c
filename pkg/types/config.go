package types

import (
	"path/filepath"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every component that fetches pages.
type HTTPConfig struct {
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Publisher
	// sites reject obvious bot agents, so the default is a desktop browser string.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Attempts is the total number of tries per request (default 2).
	Attempts int `json:"attempts" yaml:"attempts" mapstructure:"attempts"`

	// RetryDelay is the linear backoff base; the wait before attempt n+1 is RetryDelay*n.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`
}

// FullTextConfig holds settings for the full-text acquisition cascade.
type FullTextConfig struct {
	// Enabled turns full-text retrieval on; when false every summary is abstract-only.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// MaxChars bounds the text handed to the summarizer (default 60000).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`

	// MinBodyChars is the minimum body length accepted from publisher pages (default 500).
	MinBodyChars int `json:"min_body_chars" yaml:"min_body_chars" mapstructure:"min_body_chars"`

	// OpenAlexBase is the OpenAlex works endpoint used for DOI resolution.
	OpenAlexBase string `json:"openalex_base,omitempty" yaml:"openalex_base,omitempty" mapstructure:"openalex_base"`

	// ArxivBase is the arXiv site root (default "https://arxiv.org").
	ArxivBase string `json:"arxiv_base,omitempty" yaml:"arxiv_base,omitempty" mapstructure:"arxiv_base"`

	// ArxivExportBase is the arXiv export API root (default "https://export.arxiv.org").
	ArxivExportBase string `json:"arxiv_export_base,omitempty" yaml:"arxiv_export_base,omitempty" mapstructure:"arxiv_export_base"`
}

// AIProvider selects the summarization backend.
type AIProvider string

const (
	ProviderOpenAI AIProvider = "openai"
	ProviderClaude AIProvider = "claude"
	ProviderVertex AIProvider = "vertex"
)

// AIConfig holds settings for the summarization step.
type AIConfig struct {
	// Provider selects the backend: openai, claude, or vertex.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "DeepSeek-V3-0324").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL is the API endpoint for HTTP backends.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of retries after the first attempt (default 1).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	Temperature float32 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// Project and Region address Vertex AI.
	Project string `json:"project,omitempty" yaml:"project,omitempty" mapstructure:"project"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
}

// CatalogueConfig holds settings for the searchable SQLite catalogue.
type CatalogueConfig struct {
	// Enabled syncs records into the database after each run.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// DBPath is the SQLite file (default "<data_dir>/catalogue.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// PublishConfig holds settings for uploading the data directory to GCS.
type PublishConfig struct {
	Bucket string `json:"bucket" yaml:"bucket" mapstructure:"bucket"`

	// Prefix is prepended to every object name (e.g. "data/").
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// RenderConfig controls the headless browser used for JavaScript-heavy pages.
type RenderConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ChromePath overrides the Chrome executable; empty uses the default lookup.
	ChromePath string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty" mapstructure:"chrome_path"`

	// Journals lists source slugs fetched through the browser when Enabled.
	Journals []string `json:"journals,omitempty" yaml:"journals,omitempty" mapstructure:"journals"`
}

// Config is the top-level configuration, built once at startup and
// threaded through constructors.
type Config struct {
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// DataDir holds record JSON files, index.json and latest.json.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// ImagesDir holds downloaded cover images (default "<data_dir>/images").
	ImagesDir string `json:"images_dir" yaml:"images_dir" mapstructure:"images_dir"`

	// Journals selects sources by name or alias; empty or "all" runs every source.
	Journals []string `json:"journals" yaml:"journals" mapstructure:"journals"`

	// DryRun skips the summarizer.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`

	// Delay is the pause between sources.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	FullText  FullTextConfig  `json:"fulltext" yaml:"fulltext" mapstructure:"fulltext"`
	AI        AIConfig        `json:"ai" yaml:"ai" mapstructure:"ai"`
	Catalogue CatalogueConfig `json:"catalogue" yaml:"catalogue" mapstructure:"catalogue"`
	Publish   PublishConfig   `json:"publish" yaml:"publish" mapstructure:"publish"`
	Render    RenderConfig    `json:"render" yaml:"render" mapstructure:"render"`

	// Sources maps a source slug to a base URL override.
	Sources map[string]string `json:"sources,omitempty" yaml:"sources,omitempty" mapstructure:"sources"`
}

// Defaults used when configuration leaves a value unset.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultAttempts     = 2
	DefaultRetryDelay   = 3 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	DefaultMaxChars     = 60000
	DefaultMinBodyChars = 500
	DefaultModel        = "DeepSeek-V3-0324"
	DefaultClaudeModel  = "claude-sonnet-4-5"
	DefaultVertexModel  = "gemini-2.5-flash"
	DefaultAIBaseURL    = "https://models.inference.ai.azure.com"
	DefaultTemperature  = 0.7
	DefaultDataDir      = "data"

	DefaultOpenAlexBase    = "https://api.openalex.org/works/"
	DefaultArxivBase       = "https://arxiv.org"
	DefaultArxivExportBase = "https://export.arxiv.org"
)

// DefaultModelFor returns the model used when ai.model is unset. Each
// provider only accepts its own model names.
func DefaultModelFor(p AIProvider) string {
	switch p {
	case ProviderClaude:
		return DefaultClaudeModel
	case ProviderVertex:
		return DefaultVertexModel
	default:
		return DefaultModel
	}
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	c := Config{FullText: FullTextConfig{Enabled: true}, AI: AIConfig{MaxRetries: 1}}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields with their defaults. Fields that
// are legitimately zero (DryRun, Delay, MaxRetries) are left alone.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = DefaultUserAgent
	}
	if c.HTTP.Attempts <= 0 {
		c.HTTP.Attempts = DefaultAttempts
	}
	if c.HTTP.RetryDelay < 0 {
		c.HTTP.RetryDelay = 0
	} else if c.HTTP.RetryDelay == 0 {
		c.HTTP.RetryDelay = DefaultRetryDelay
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ImagesDir == "" {
		c.ImagesDir = filepath.Join(c.DataDir, "images")
	}
	if c.Catalogue.DBPath == "" {
		c.Catalogue.DBPath = filepath.Join(c.DataDir, "catalogue.db")
	}
	if c.FullText.MaxChars <= 0 {
		c.FullText.MaxChars = DefaultMaxChars
	}
	if c.FullText.MinBodyChars <= 0 {
		c.FullText.MinBodyChars = DefaultMinBodyChars
	}
	if c.FullText.OpenAlexBase == "" {
		c.FullText.OpenAlexBase = DefaultOpenAlexBase
	}
	if c.FullText.ArxivBase == "" {
		c.FullText.ArxivBase = DefaultArxivBase
	}
	if c.FullText.ArxivExportBase == "" {
		c.FullText.ArxivExportBase = DefaultArxivExportBase
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOpenAI
	}
	if c.AI.Model == "" {
		c.AI.Model = DefaultModelFor(c.AI.Provider)
	}
	if c.AI.Provider == ProviderOpenAI && c.AI.BaseURL == "" {
		c.AI.BaseURL = DefaultAIBaseURL
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = DefaultTemperature
	}
	if c.AI.MaxRetries < 0 {
		c.AI.MaxRetries = 0
	}
}
