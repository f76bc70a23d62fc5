// Package config defines the course-submit settings and helpers to load,
// validate and save them in YAML format.
//
// Every field is optional: Validate fills the course id, manifest name,
// outbox directory and quiz catalog with built-in defaults.
package config
