// Package config loads and watches Draftsmith's settings.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← DRAFTSMITH_OVERLAY_POLICY=all-spans
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/draftsmith/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// # Configuration Files
//
// TOML is the primary format; files ending in .yaml or .yml are read as
// YAML with the same keys:
//
//	[overlay]
//	policy = "all-spans"
//	max_width = 60
//
//	[render]
//	backend = "terminal"
//	theme = "dark"
//	async = true
//
// # Live Reload
//
// Watcher observes the config file's directory with fsnotify and delivers
// a freshly loaded Config after writes settle.
//
// # Error Handling
//
//   - ParseError: the file or merged settings could not be decoded
//   - ValidationError: a setting holds an unsupported value
//   - ErrUnknownFormat: the file extension names no supported format
package config
