//go:build withcv
// +build withcv

package compositor

import (
	"github.com/ausocean/osdcompose/config"
	"github.com/ausocean/osdcompose/scale"
	"github.com/ausocean/osdcompose/scale/gocvscale"
	"github.com/ausocean/osdcompose/scale/imgscale"
)

func newBackendScaler(cfg config.Config) scale.Scaler {
	if cfg.Backend == config.BackendImgscale {
		return imgscale.New()
	}
	return gocvscale.New()
}
