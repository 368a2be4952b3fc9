// Package config loads weathercalc settings from the environment, optionally
// seeded from a .env file. Variables already set in the environment win over
// the file.
package config
