// Package config loads subpipe settings from an optional TOML file and the
// process environment. Environment variables use the names the pipeline has
// always honored (WHISPER_MODEL, OPENAI_ENDPOINT, TARGET_LANG, ...) and
// always win over file values.
package config
