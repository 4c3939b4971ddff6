package config

// ModelConfig represents the configuration for the model artifacts
type ModelConfig struct {
	Dir string
}

// PipelineConfig represents the scoring pipeline configuration
type PipelineConfig struct {
	ConfidenceThreshold float64
	MaxTextSize         int
}

// KeywordsConfig represents the keyword list configuration
type KeywordsConfig struct {
	File string
}

// GetModel returns the model artifact configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Dir: c.GetString("model.dir"),
	}
}

// GetPipeline returns the pipeline configuration
func (c *Config) GetPipeline() PipelineConfig {
	return PipelineConfig{
		ConfidenceThreshold: c.GetFloat64("pipeline.confidence_threshold"),
		MaxTextSize:         c.GetInt("pipeline.max_text_size"),
	}
}

// GetKeywords returns the keyword list configuration
func (c *Config) GetKeywords() KeywordsConfig {
	return KeywordsConfig{
		File: c.GetString("keywords.file"),
	}
}
