// Package config defines the settings shared by the alarm clock binaries
// and provides helpers to load, validate and save them in YAML format.
//
// Every field can be overridden through an ALARM_CLOCK_* environment
// variable, which is applied after the YAML file is read.
package config
