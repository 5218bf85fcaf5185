//go:build !withcv
// +build !withcv

package compositor

import (
	"github.com/ausocean/osdcompose/config"
	"github.com/ausocean/osdcompose/scale"
	"github.com/ausocean/osdcompose/scale/imgscale"
)

// newBackendScaler always returns imgscale in builds without the
// withcv tag, regardless of cfg.Backend: gocvscale needs OpenCV's
// shared libraries, which circleci (and most cross-compiled targets)
// do not carry. Mirrors filter/filters_circleci.go's role for the
// motion filters.
func newBackendScaler(cfg config.Config) scale.Scaler {
	return imgscale.New()
}
