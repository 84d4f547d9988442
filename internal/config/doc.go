// Package config loads delegator configuration.
//
// A configuration file is TOML (.toml) or YAML (.yaml, .yml). After the
// file is decoded, environment variables prefixed with DELEGATOR_ override
// scalar settings, e.g. DELEGATOR_LOG_LEVEL=debug or
// DELEGATOR_METRICS_ADDRESS=:9100.
//
// Example:
//
//	root = "body"
//
//	[log]
//	level = "debug"
//
//	[[element]]
//	id = "body"
//	width = 60
//	height = 18
//
//	[[element]]
//	id = "save"
//	parent = "body"
//	classes = ["button"]
//
//	[[binding]]
//	event = "click"
//	key = "save"
//	type = "id"
//	stop = true
//	action = "status"
//	arg = "saved"
//
// Elements and bindings are arrays of tables, so their order is the order
// they appear in the file.
package config
