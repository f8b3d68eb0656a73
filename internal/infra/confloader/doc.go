// Package confloader loads relay configuration with koanf and watches the
// config file for edits.
//
// Sources, lowest to highest priority: values already present in the target
// struct, the YAML file, .env files (godotenv), then RELAY_* environment
// variables. Nesting levels in variable names are separated by "__", so
// RELAY_LOG__LEVEL=debug sets log.level.
//
// The Watcher coalesces bursts of fsnotify events, since editors often write
// a file several times in a row, and reports one change per burst.
package confloader
