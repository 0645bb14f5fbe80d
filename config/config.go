package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

type Config struct {
	config *viper.Viper
}

func Load() (*Config, error) {

	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	configPath, err := getConfigPath(env)

	viperConfig := viper.New()
	if err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}

	return cfg, nil
}

func (c *Config) GetPort() string {
	port := c.config.GetString("PORT")
	if len(port) == 0 {
		port = c.config.GetString("server.port")
	}

	return port
}

func (c *Config) GetKVDBPath() string {
	kvdbPath := c.config.GetString("KVDB_PATH")
	if len(kvdbPath) == 0 {
		kvdbPath = c.config.GetString("database.kvdb_path")
	}

	return kvdbPath
}

func (c *Config) GetIndexPath() string {
	indexPath := c.config.GetString("INDEX_PATH")
	if len(indexPath) == 0 {
		indexPath = c.config.GetString("database.index_path")
	}

	return indexPath
}

func (c *Config) GetStoragePath() string {
	storagePath := c.config.GetString("STORAGE_PATH")
	if len(storagePath) == 0 {
		storagePath = c.config.GetString("database.storage_path")
	}

	return storagePath
}

// GetLibraryRoot is the folder tree of block files that gets indexed.
func (c *Config) GetLibraryRoot() string {
	root := c.config.GetString("LIBRARY_ROOT")
	if len(root) == 0 {
		root = c.config.GetString("library.root")
	}

	return root
}

// GetTemplatePath points at the .docx used as the formatting template
// when the splitter writes section documents. Empty means sections are
// written onto a blank document.
func (c *Config) GetTemplatePath() string {
	templatePath := c.config.GetString("TEMPLATE_PATH")
	if len(templatePath) == 0 {
		templatePath = c.config.GetString("library.template_path")
	}

	return templatePath
}

// GetWatchEnabled reports whether the library root should be watched
// for changes that trigger incremental index builds.
func (c *Config) GetWatchEnabled() bool {
	if c.config.IsSet("WATCH_LIBRARY") {
		return c.config.GetBool("WATCH_LIBRARY")
	}

	return c.config.GetBool("library.watch")
}

// GetDefaultPasteMode is the insertion mode used by transfers that
// don't specify one ("cursor" or "end").
func (c *Config) GetDefaultPasteMode() string {
	mode := c.config.GetString("DEFAULT_PASTE_MODE")
	if len(mode) == 0 {
		mode = c.config.GetString("search.default_paste_mode")
	}
	if len(mode) == 0 {
		mode = "cursor"
	}

	return mode
}

// GetIncludePathDefault reports whether folder paths participate in
// matching when a search request doesn't say either way.
func (c *Config) GetIncludePathDefault() bool {
	if c.config.IsSet("INCLUDE_PATH") {
		return c.config.GetBool("INCLUDE_PATH")
	}

	return c.config.GetBool("search.include_path")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
