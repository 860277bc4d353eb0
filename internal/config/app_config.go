// Package config loads treeline's layered configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/treeline-dev/treeline/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds render defaults loaded from configuration
// files. Pointer fields distinguish "absent" from an explicit false.
type ApplicationConfiguration struct {
	Render RenderConfiguration `mapstructure:"render"`
}

// RenderConfiguration defines the defaults applied when the corresponding
// command line flag is not set.
type RenderConfiguration struct {
	OutputFile     string   `mapstructure:"output_file"`
	Ignore         []string `mapstructure:"ignore"`
	FollowSymlinks *bool    `mapstructure:"follow_symlinks"`
	SafeMode       *bool    `mapstructure:"safe_mode"`
	Copy           *bool    `mapstructure:"copy"`
}

// LoadApplicationConfiguration loads configuration from the global file in
// the user's home directory and the local file in the working directory,
// local values overriding global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Render.Ignore = utils.DeduplicateNames(merged.Render.Ignore)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var loaded ApplicationConfiguration
	if decodeError := reader.Unmarshal(&loaded); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return loaded, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Render = result.Render.merge(override.Render)
	return result
}

func (configuration RenderConfiguration) merge(override RenderConfiguration) RenderConfiguration {
	result := configuration
	if override.OutputFile != "" {
		result.OutputFile = override.OutputFile
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.DeduplicateNames(override.Ignore)...)
	}
	if override.FollowSymlinks != nil {
		result.FollowSymlinks = cloneBool(override.FollowSymlinks)
	}
	if override.SafeMode != nil {
		result.SafeMode = cloneBool(override.SafeMode)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
