// Package config merges configuration from defaults, config file, profile,
// environment variables and command-line flags into a generator.Options.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/samialtum/resxgen/pkg/generator"
	"github.com/samialtum/resxgen/pkg/generator/encoding"
)

const (
	EnvPrefix         = "RESXGEN"
	DefaultConfigName = "resxgen"
)

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged configuration and sets up the
// logger. Verbosity is taken from the flag set like every other flag value.
// Returns the populated Options struct or an error.
func LoadAndValidate(cfgFile, profileName, appVersion string, flags *pflag.FlagSet) (generator.Options, *slog.Logger, error) {
	var opts generator.Options
	v := viper.New()

	// Basic logger for early loading errors.
	tempLogHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	tempLogger := slog.New(tempLogHandler)

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			tempLogger.Error("Failed to get user home directory", slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
		}

		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			// Config file not found is OK if not explicitly specified.
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
	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("profile '%s' not found in config file '%s'", profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			err := fmt.Errorf("failed to load profile '%s' settings from config file '%s'", profileName, v.ConfigFileUsed())
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
	// Only flags whose name matches their config key can be bound directly;
	// the rest are applied explicitly after unmarshalling, where flag values
	// must win over every other source.
	for _, key := range []string{"namespace", "match", "ignore", "verbose"} {
		flag := flags.Lookup(key)
		if flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", key), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", key, err)
			}
		} else {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", key))
		}
	}

	opts.AppVersion = appVersion

	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// --- Explicit Flag Overrides ---
	// Command-line flags for critical values take absolute precedence over
	// anything unmarshalled from files/env/defaults.
	if flags.Changed("input") {
		if inputVal, _ := flags.GetString("input"); inputVal != "" {
			opts.InputDir = inputVal
			tempLogger.Debug("Input directory explicitly set from flag", slog.String("path", opts.InputDir))
		}
	}
	if flags.Changed("verbose") {
		opts.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("internal") {
		opts.InternalAccessModifier, _ = flags.GetBool("internal")
	}
	if flags.Changed("on-error") {
		mode, _ := flags.GetString("on-error")
		opts.OnErrorMode = generator.OnErrorMode(mode)
	}
	if flags.Changed("dry-run") {
		opts.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("output-format") {
		format, _ := flags.GetString("output-format")
		opts.OutputFormat = generator.OutputFormat(format)
	}
	if flags.Changed("output-encoding") {
		opts.OutputEncoding, _ = flags.GetString("output-encoding")
	}
	if flags.Changed("bom") {
		opts.OutputBOM, _ = flags.GetBool("bom")
	}
	if flags.Changed("converter-cmd") {
		opts.ConverterCommand, _ = flags.GetStringArray("converter-cmd")
	}
	if flags.Changed("no-tui") {
		if noTui, _ := flags.GetBool("no-tui"); noTui {
			opts.TuiEnabled = false
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

	// --- Manually Parse time.Duration After Unmarshal ---
	// The converter timeout reaches us as a string from viper or the flag.
	timeoutString := v.GetString("converterTimeout")
	if flags.Changed("converter-timeout") {
		timeoutString, _ = flags.GetString("converter-timeout")
	}
	if timeoutString == "" {
		timeoutString = generator.DefaultConverterTimeoutString
	}
	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		if flags.Changed("converter-timeout") {
			err = fmt.Errorf("%w: invalid converter timeout '%s': %w", generator.ErrConfigValidation, timeoutString, err)
			logger.Error(err.Error(), slog.String("key", "converterTimeout"), slog.String("value", timeoutString))
			return opts, logger, err
		}
		logger.Warn("Could not parse converterTimeout string, using default",
			slog.String("value", timeoutString),
			slog.Duration("default", generator.DefaultConverterTimeout),
			slog.String("error", err.Error()))
		timeout = generator.DefaultConverterTimeout
	}
	if timeout < 0 {
		err = fmt.Errorf("%w: invalid negative converter timeout '%s'", generator.ErrConfigValidation, timeoutString)
		logger.Error(err.Error(), slog.String("key", "converterTimeout"), slog.String("value", timeoutString))
		return opts, logger, err
	}
	opts.ConverterTimeout = timeout

	if err := validateOptions(&opts, logger, flags); err != nil {
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

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("inputDir", "")
	v.SetDefault("namespace", "")
	v.SetDefault("internalAccessModifier", false)
	v.SetDefault("match", generator.DefaultMatchPattern)
	v.SetDefault("ignore", []string{})
	v.SetDefault("onError", string(generator.DefaultOnErrorMode))
	v.SetDefault("dryRun", generator.DefaultDryRun)
	v.SetDefault("verbose", generator.DefaultVerbose)
	v.SetDefault("tuiEnabled", generator.DefaultTuiEnabled)
	v.SetDefault("outputFormat", string(generator.DefaultOutputFormat))
	v.SetDefault("outputEncoding", generator.DefaultOutputEncoding)
	v.SetDefault("outputBOM", generator.DefaultOutputBOM)
	v.SetDefault("converterCommand", []string{})
	v.SetDefault("converterTimeout", generator.DefaultConverterTimeoutString)
}

// isValidEnumValue checks if a given string value is present in a slice of
// allowed enum values. Case-sensitive comparison.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateOptions performs semantic validation on the populated Options
// struct. Input directory existence is verified later by the engine, which
// owns path resolution; this function validates what can be checked without
// touching the filesystem. It wraps errors with generator.ErrConfigValidation.
func validateOptions(opts *generator.Options, logger *slog.Logger, flags *pflag.FlagSet) error {
	allowedOnError := []generator.OnErrorMode{generator.OnErrorContinue, generator.OnErrorStop}
	if !isValidEnumValue(opts.OnErrorMode, allowedOnError) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'onError' (flag --on-error). Allowed: %v", generator.ErrConfigValidation, opts.OnErrorMode, allowedOnError)
		logger.Error(err.Error(), slog.String("key", "onError"), slog.String("value", string(opts.OnErrorMode)))
		return err
	}
	allowedOutputFormat := []generator.OutputFormat{generator.OutputFormatText, generator.OutputFormatJSON, generator.OutputFormatYAML}
	if !isValidEnumValue(opts.OutputFormat, allowedOutputFormat) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v", generator.ErrConfigValidation, opts.OutputFormat, allowedOutputFormat)
		logger.Error(err.Error(), slog.String("key", "outputFormat"), slog.String("value", string(opts.OutputFormat)))
		return err
	}

	if opts.MatchPattern == "" {
		err := fmt.Errorf("%w: match pattern cannot be empty (flag --match)", generator.ErrConfigValidation)
		logger.Error(err.Error(), slog.String("key", "match"))
		return err
	}
	if _, err := filepath.Match(opts.MatchPattern, "probe"); err != nil {
		err = fmt.Errorf("%w: invalid match pattern '%s': %w", generator.ErrConfigValidation, opts.MatchPattern, err)
		logger.Error(err.Error(), slog.String("key", "match"), slog.String("value", opts.MatchPattern))
		return err
	}

	// Verify the requested output encoding is one we can actually produce.
	if _, err := encoding.NewCharsetEncoder(opts.OutputEncoding, opts.OutputBOM); err != nil {
		err = fmt.Errorf("%w: invalid value '%s' for key 'outputEncoding' (flag --output-encoding): %w", generator.ErrConfigValidation, opts.OutputEncoding, err)
		logger.Error(err.Error(), slog.String("key", "outputEncoding"), slog.String("value", opts.OutputEncoding))
		return err
	}

	// Verbose output and the TUI fight over the terminal; verbose wins.
	if opts.Verbose {
		if opts.TuiEnabled && !flags.Changed("no-tui") {
			logger.Debug("Verbose mode enabled, TUI explicitly disabled")
		}
		opts.TuiEnabled = false
	}

	logger.Debug("Final settings validated",
		slog.String("match", opts.MatchPattern),
		slog.String("onError", string(opts.OnErrorMode)),
		slog.String("outputEncoding", opts.OutputEncoding),
		slog.Duration("converterTimeout", opts.ConverterTimeout),
		slog.Bool("tuiEnabledEffective", opts.TuiEnabled),
	)

	return nil
}
