// Package utils exposes reusable helpers consumed by the CLI and the publish pipeline.
//
// ConfigurationLoader layers embedded defaults, configuration files and environment
// variables through Viper; LoggerFactory builds the zap loggers; CommandContextAccessor
// carries the configuration file path and run identifier through command contexts.
package utils
