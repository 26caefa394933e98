package config

import (
	"strconv"
	"time"

	"github.com/golang/glog"
)

// Config holds a map of config values by their keys/names. They are
// all stored as strings and parsed on read time only. Currently there
// are four built in types:
//
// `string`: (GetString) Returns the config value as a string. This
// can never fail.
//
// `int`: (GetInt) Uses strconv.Atoi to parse the value and return an
// int.
//
// `duration`: (GetDuration) Uses time.ParseDuration to parse the
// value and return a duration. That means that you should set
// duration configs like "xxx us/ms/s/h/etc."
//
// `bool`: (GetBool) Uses strconv.ParseBool to read config vars like
// true/t/1 or false/f/0
//
// When a value COULD NOT BE PARSED at runtime, Config emits a warning
// (with glog) and returns the given DEFAULT VALUE.
type Config struct {
	values map[string]string
}

// NewConfig returns a new empty Config.
func NewConfig() *Config {
	return &Config{
		values: make(map[string]string),
	}
}

// Set sets a config to a value. All values can only be set as strings.
func (c *Config) Set(key, value string) {
	c.values[key] = value
}

// GetString gets a value as a string. This one will never emit a
// warning because all values per definition are available as strings.
func (c *Config) GetString(key, defaultVal string) string {
	cfgValue, found := c.values[key]
	if !found {
		return defaultVal
	}
	return cfgValue
}

// GetInt returns the config as an int. If the config is not set, the
// supplied default value is returned. If the config is not possible
// to parse as an int (strconv.Atoi), the default value is returned
// and a warning message is written to glog.
func (c *Config) GetInt(key string, defaultVal int) int {
	cfgValue, found := c.values[key]
	if !found {
		return defaultVal
	}

	n, err := strconv.Atoi(cfgValue)
	if err != nil {
		glog.Warningf("Could not parse config \"%s\": \"%s\" as int (see strconv.Atoi). Using default value: \"%d\".",
			key, cfgValue, defaultVal)
		return defaultVal
	}

	return n
}

// GetDuration returns the config as a time.Duration. If the config is
// not set, the supplied default value is returned. If the config is
// not possible to parse as a duration (time.ParseDuration), the
// default value is returned and a warning message is written to glog.
func (c *Config) GetDuration(key string, defaultVal time.Duration) time.Duration {
	cfgValue, found := c.values[key]
	if !found {
		return defaultVal
	}

	dur, err := time.ParseDuration(cfgValue)
	if err != nil {
		glog.Warningf("Could not parse config \"%s\": \"%s\" as duration (see time.ParseDuration). Using default value: \"%s\".",
			key, cfgValue, defaultVal.String())
		return defaultVal
	}

	return dur
}

// GetBool returns the config as a bool. If the config is not set, the
// supplied default value is returned. If the config is not possible
// to parse as a bool (strconv.ParseBool), the default value is
// returned and a warning message is written to glog.
func (c *Config) GetBool(key string, defaultVal bool) bool {
	cfgValue, found := c.values[key]
	if !found {
		return defaultVal
	}

	b, err := strconv.ParseBool(cfgValue)
	if err != nil {
		glog.Warningf("Could not parse config \"%s\": \"%s\" as boolean (see strconv.ParseBool). Using default value: \"%t\".",
			key, cfgValue, defaultVal)
		return defaultVal
	}

	return b
}

// CloneToKeyValueMap clones the config with all the values.
func (c *Config) CloneToKeyValueMap() map[string]string {
	clonedMap := make(map[string]string, len(c.values))
	for k, v := range c.values {
		clonedMap[k] = v
	}
	return clonedMap
}

// StrictBallotDiscipline reports whether acceptors should require
// strictly increasing ballots on promise (classical single-decree
// Paxos) rather than the >= rule multi-paxos leader stickiness relies
// on. See spec.md 4.1 and 9.
func (c *Config) StrictBallotDiscipline() bool {
	return c.GetBool(KeyStrictBallotDiscipline, DefStrictBallotDiscipline)
}

// QuorumOverride returns an explicit quorum size to use instead of the
// acceptor set's computed majority, or 0 if none is configured.
func (c *Config) QuorumOverride() int {
	return c.GetInt(KeyQuorumOverride, DefQuorumOverride)
}
