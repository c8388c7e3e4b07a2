// Package config handles loading and validation of nexus configuration.
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags
//   - ./.nexus.toml
//   - ~/.config/nexus/config.toml
//   - ~/.nexus.toml
//   - Default values
//
// Only the first file found is read; files are not merged.
//
// # Key Settings
//
//   - scan_depth: Directory levels searched below the root (default 3)
//   - root: Default scan root (must be absolute or ~/...)
//   - ignore_dirs, ignore_patterns: Extra discovery ignore rules
//   - workers: Parallelism for scans and batch fixes (0 = CPUs)
//
// # Display and Cache
//
//	[display]
//	default_verbose = true
//	default_sort = "health"
//
//	[cache]
//	enabled = true
//	max_age = "1m"
package config
