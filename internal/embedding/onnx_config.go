package embedding

import "github.com/hyperjump/tanya/internal/models"

// ONNXConfig configures a local ONNX embedder.
type ONNXConfig struct {
	ModelPath  string
	Dimensions int // default 384
	MaxTokens  int // default 256
}

var errONNXModelPath = &models.ConfigError{Field: "embedding.model_path", Reason: "required for the onnx provider"}

func (c ONNXConfig) withDefaults() (dims, maxTokens int) {
	dims, maxTokens = c.Dimensions, c.MaxTokens
	if dims <= 0 {
		dims = 384
	}
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return dims, maxTokens
}
