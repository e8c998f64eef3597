package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"health_service/internal/core"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Model         ModelConfig         `yaml:"model"`
	Visualization VisualizationConfig `yaml:"visualization"`
	Training      TrainingConfig      `yaml:"training"`
	Recorder      RecorderConfig      `yaml:"recorder"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type ModelConfig struct {
	KMeansPath string `yaml:"kmeans_path"`
	ScalerPath string `yaml:"scaler_path"`
}

type VisualizationConfig struct {
	Path string `yaml:"path"`
}

type TrainingConfig struct {
	DatasetPath   string  `yaml:"dataset_path"`
	Clusters      int     `yaml:"clusters"`
	Restarts      int     `yaml:"restarts"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Seed          uint64  `yaml:"seed"`
}

type RecorderConfig struct {
	Enabled     bool   `yaml:"enabled"`
	PostgresURL string `yaml:"postgres_url"`
}

func Default() *Config {
	k := core.DefaultKMeansConfig()
	return &Config{
		Server: ServerConfig{Address: ":5000"},
		Model: ModelConfig{
			KMeansPath: filepath.Join("model", "kmeans_imc_pasos.gob"),
			ScalerPath: filepath.Join("model", "scaler_imc_pasos.gob"),
		},
		Visualization: VisualizationConfig{
			Path: filepath.Join("static", "imc_pasos_clusters.html"),
		},
		Training: TrainingConfig{
			DatasetPath:   "Dataset_Salud_Wearables.csv",
			Clusters:      k.K,
			Restarts:      k.Restarts,
			MaxIterations: k.MaxIterations,
			Tolerance:     k.Tolerance,
			Seed:          k.Seed,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(content, conf); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := conf.applyEnv(); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Unmarshal parses conf on top of the defaults. Environment is not consulted.
func Unmarshal(conf []byte) (*Config, error) {
	out := Default()
	if err := yaml.Unmarshal(conf, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("MODEL_DIR"); v != "" {
		c.Model.KMeansPath = filepath.Join(v, filepath.Base(c.Model.KMeansPath))
		c.Model.ScalerPath = filepath.Join(v, filepath.Base(c.Model.ScalerPath))
	}
	if v := os.Getenv("POSTGRES_URL"); v != "" {
		c.Recorder.PostgresURL = v
	}
	if v := os.Getenv("SAVE_CLASSIFICATIONS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SAVE_CLASSIFICATIONS %q: %w", v, err)
		}
		c.Recorder.Enabled = enabled
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Model.KMeansPath == "" || c.Model.ScalerPath == "" {
		return errors.New("model.kmeans_path and model.scaler_path are required")
	}
	if c.Training.Clusters < 1 {
		return fmt.Errorf("training.clusters must be at least 1, got %d", c.Training.Clusters)
	}
	if c.Training.Restarts < 1 {
		return fmt.Errorf("training.restarts must be at least 1, got %d", c.Training.Restarts)
	}
	if c.Training.MaxIterations < 1 {
		return fmt.Errorf("training.max_iterations must be at least 1, got %d", c.Training.MaxIterations)
	}
	if c.Training.Tolerance < 0 {
		return fmt.Errorf("training.tolerance must not be negative, got %g", c.Training.Tolerance)
	}
	if c.Recorder.Enabled && c.Recorder.PostgresURL == "" {
		return errors.New("recorder.postgres_url is required when recording is enabled")
	}
	return nil
}

func (c *Config) KMeans() core.KMeansConfig {
	return core.KMeansConfig{
		K:             c.Training.Clusters,
		Restarts:      c.Training.Restarts,
		MaxIterations: c.Training.MaxIterations,
		Tolerance:     c.Training.Tolerance,
		Seed:          c.Training.Seed,
	}
}
