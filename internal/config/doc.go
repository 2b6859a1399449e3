// Package config holds the settings of splitpad.
//
// Settings come from three layers, each overriding the one below:
//
//	environment   SPLITPAD_WRAP, SPLITPAD_HISTORY_MAX_BYTES, ...
//	config file   $XDG_CONFIG_HOME/splitpad/config.toml or $SPLITPAD_CONFIG
//	defaults      Default()
//
// The file is TOML with the sections editor, history, backup, panes,
// session, hooks and log. Unknown keys in the file are errors; unknown
// environment variables are ignored.
//
// # Sub-packages
//
//   - loader: raw TOML and environment loading into maps
package config
