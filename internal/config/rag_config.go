package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RAGConfig describes the retrieval pipeline file.
//
//	collection: sff_8071
//	embedding_model: nomic-embed-text
//	vector_db_paths:
//	  MSA: ./data/msa.json
type RAGConfig struct {
	Collection     string            `yaml:"collection"`
	EmbeddingModel string            `yaml:"embedding_model"`
	VectorDBPaths  map[string]string `yaml:"vector_db_paths"`
}

// LoadRAGConfig reads and parses the YAML pipeline file at path.
func LoadRAGConfig(path string) (*RAGConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rag config %s: %w", path, err)
	}

	var cfg RAGConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rag config %s: %w", path, err)
	}
	if cfg.VectorDBPaths == nil {
		cfg.VectorDBPaths = map[string]string{}
	}
	return &cfg, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
