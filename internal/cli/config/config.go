// Package config merges defaults, config files, profiles, environment
// variables and flags into scanner.Options for the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/net/html/charset"

	"github.com/stackvity/asset-scanner/pkg/scanner"
)

const (
	EnvPrefix         = "ASSETSCANNER"
	DefaultConfigName = "asset-scanner"
)

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"max-workers":       "maxWorkers",
	"chunk-size":        "chunkSize",
	"chunk-retries":     "chunkRetries",
	"reader":            "reader",
	"recursive":         "recursive",
	"ignore":            "ignore",
	"asset-class-field": "assetClassField",
	"default-encoding":  "defaultEncoding",
	"output-format":     "outputFormat",
	"report":            "reportFile",
	"report-format":     "reportFormat",
	"verbose":           "verbose",
}

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged result and sets up the logger.
// flags may be nil. Flags that the current command does not define are
// simply not bound.
func LoadAndValidate(cfgFile, profileName, appVersion string, verbose bool, flags *pflag.FlagSet) (scanner.Options, *slog.Logger, error) {
	var opts scanner.Options
	v := viper.New()
	if flags == nil {
		flags = pflag.NewFlagSet("empty", pflag.ContinueOnError)
	}

	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		} else {
			tempLogger.Debug("No home directory, searching the working directory only", slog.Any("error", err))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	// --- Apply Profile ---
	if profileName != "" {
		profileKey := "profiles." + profileName
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("profile '%s' not found in config file '%s'", profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	for flagName, key := range flagKeys {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			tempLogger.Error("Error binding flag", slog.String("flag", flagName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
		}
	}

	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	opts.AppVersion = appVersion
	opts.ProfileName = profileName

	if verbose {
		opts.Verbose = true
	}
	if flags.Changed("no-progress") {
		if off, _ := flags.GetBool("no-progress"); off {
			opts.Progress = false
		}
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateAndDeriveOptions(&opts, logger); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)
	return opts, logger, nil
}

// ApplyDirectory sets the scan directory from a command argument, falling
// back to the configured "directory" key, and resolves it to an absolute path.
// Existence is checked by the scanner itself.
func ApplyDirectory(opts *scanner.Options, arg string, logger *slog.Logger) error {
	if arg != "" {
		opts.Directory = arg
	}
	if opts.Directory == "" {
		err := fmt.Errorf("%w: %w (argument <dir> or config key 'directory')", scanner.ErrConfigValidation, scanner.ErrEmptyPath)
		logger.Error(err.Error(), slog.String("key", "directory"))
		return err
	}
	abs, err := filepath.Abs(opts.Directory)
	if err != nil {
		err = fmt.Errorf("%w: cannot resolve absolute path '%s': %w", scanner.ErrConfigValidation, opts.Directory, err)
		logger.Error(err.Error(), slog.String("key", "directory"))
		return err
	}
	opts.Directory = abs
	return nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	// --- Scan ---
	v.SetDefault("directory", "")
	v.SetDefault("maxWorkers", scanner.DefaultMaxWorkers)
	v.SetDefault("chunkSize", scanner.DefaultChunkSize)
	v.SetDefault("chunkRetries", scanner.DefaultChunkRetries)
	v.SetDefault("reader", string(scanner.DefaultReaderType))
	v.SetDefault("recursive", scanner.DefaultRecursive)
	v.SetDefault("ignore", []string{})
	v.SetDefault("assetClassField", scanner.DefaultAssetClassField)
	v.SetDefault("defaultEncoding", "")

	// --- Output ---
	v.SetDefault("verbose", scanner.DefaultVerbose)
	v.SetDefault("progress", true)
	v.SetDefault("outputFormat", string(scanner.DefaultOutputFormat))
	v.SetDefault("reportFile", "")
	v.SetDefault("reportFormat", "")
}

// isValidEnumValue checks if a given string value is present in a slice of allowed enum values.
// Case-sensitive comparison.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateAndDeriveOptions performs semantic validation on the populated
// Options and fills derived fields. Errors wrap scanner.ErrConfigValidation.
func validateAndDeriveOptions(opts *scanner.Options, logger *slog.Logger) error {
	invalid := func(key string, value any, format string, args ...any) error {
		err := fmt.Errorf("%w: "+format, append([]any{scanner.ErrConfigValidation}, args...)...)
		logger.Error(err.Error(), slog.String("key", key), slog.Any("value", value))
		return err
	}

	// === Enum String Validations ===
	allowedReaders := []scanner.ReaderType{scanner.ReaderBasic, scanner.ReaderParallel}
	if !isValidEnumValue(opts.ReaderType, allowedReaders) {
		return invalid("reader", opts.ReaderType, "invalid value '%s' for key 'reader' (flag --reader). Allowed: %v", opts.ReaderType, allowedReaders)
	}
	allowedOutput := []scanner.OutputFormat{scanner.OutputFormatText, scanner.OutputFormatJSON, scanner.OutputFormatYAML, scanner.OutputFormatTOML}
	if !isValidEnumValue(opts.OutputFormat, allowedOutput) {
		return invalid("outputFormat", opts.OutputFormat, "invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v", opts.OutputFormat, allowedOutput)
	}
	allowedReport := []scanner.OutputFormat{"", scanner.OutputFormatJSON, scanner.OutputFormatYAML, scanner.OutputFormatTOML}
	if !isValidEnumValue(opts.ReportFormat, allowedReport) {
		return invalid("reportFormat", opts.ReportFormat, "invalid value '%s' for key 'reportFormat' (flag --report-format). Allowed: %v", opts.ReportFormat, allowedReport[1:])
	}

	// === Numeric Range Validations ===
	if opts.MaxWorkers < 0 {
		return invalid("maxWorkers", opts.MaxWorkers, "invalid value '%d' for key 'maxWorkers' (flag --max-workers). Must be >= 0", opts.MaxWorkers)
	}
	if opts.ChunkSize < 1 {
		return invalid("chunkSize", opts.ChunkSize, "invalid value '%d' for key 'chunkSize' (flag --chunk-size). Must be >= 1", opts.ChunkSize)
	}

	// === Strings ===
	if strings.TrimSpace(opts.AssetClassField) == "" {
		return invalid("assetClassField", opts.AssetClassField, "key 'assetClassField' cannot be blank")
	}
	if opts.DefaultEncoding != "" {
		if enc, _ := charset.Lookup(opts.DefaultEncoding); enc == nil {
			return invalid("defaultEncoding", opts.DefaultEncoding, "unknown encoding '%s' for key 'defaultEncoding'", opts.DefaultEncoding)
		}
	}
	for _, p := range opts.IgnorePatterns {
		if _, err := path.Match(strings.TrimPrefix(p, "/"), ""); err != nil {
			return invalid("ignore", p, "malformed ignore pattern '%s': %v", p, err)
		}
	}

	// === Derive other options ===
	if opts.ReportFile != "" {
		abs, err := filepath.Abs(opts.ReportFile)
		if err != nil {
			return invalid("reportFile", opts.ReportFile, "cannot resolve absolute report path '%s': %v", opts.ReportFile, err)
		}
		opts.ReportFile = abs
	}
	if opts.Verbose && opts.Progress {
		logger.Debug("Verbose mode enabled, progress bar disabled")
		opts.Progress = false
	}

	logger.Debug("Final derived settings validated",
		slog.String("reader", string(opts.ReaderType)),
		slog.Int("maxWorkers", opts.MaxWorkers),
		slog.Int("chunkSize", opts.ChunkSize),
		slog.Int("chunkRetries", opts.ChunkRetries),
		slog.Bool("recursive", opts.Recursive),
		slog.Bool("progress", opts.Progress),
	)
	return nil
}
