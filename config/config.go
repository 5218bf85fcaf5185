/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the compositor's configuration settings.
package config

import (
	"github.com/pkg/errors"

	"github.com/ausocean/osdcompose/mlog"
)

// Backend selects which scale.Scaler implementation the compositor
// builds.
type Backend uint8

const (
	// BackendAuto picks gocv when the binary was built with the withcv
	// tag, and falls back to imgscale otherwise.
	BackendAuto Backend = iota
	BackendImgscale
	BackendGocv
)

// Config holds every tunable the compositor cache needs. Validate
// defaults an unset Logger; other fields keep their zero values.
type Config struct {
	// ScaleInTiles enables the tiled overlay converter for targets that
	// support it; ignored for RGB colorspace targets, which never tile.
	ScaleInTiles bool

	// Workers is the number of goroutines blend.Slices fans out across.
	// Zero or one disables parallel blending.
	Workers int

	// Backend selects the scale.Scaler implementation.
	Backend Backend

	// Logger holds an implementation of the mlog.Logger interface. This
	// must be set, or Validate defaults it to an mlog logger writing to
	// LogPath (or stderr when LogPath is empty).
	Logger mlog.Logger

	// LogLevel is the logging verbosity level. Valid values are
	// mlog.Debug, mlog.Info, mlog.Warning, mlog.Error, mlog.Fatal.
	LogLevel int8

	// LogPath, if set, is the file mlog's lumberjack writer rotates.
	// Ignored if Logger is set directly.
	LogPath string

	// Development enables mlog's human-readable console encoding.
	Development bool
}

// Validate defaults Logger if it is nil and returns an error if
// Workers is negative. It logs nothing and defaults no other field.
func (c *Config) Validate() error {
	if c.Logger == nil {
		c.Logger = mlog.New(mlog.Config{Path: c.LogPath, Development: c.Development}, c.LogLevel)
	}
	if c.Workers < 0 {
		return errors.New("config: Workers must not be negative")
	}
	return nil
}

// LogInvalidField logs that a field was unset or invalid and what it
// was defaulted to.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
