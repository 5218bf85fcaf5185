package config

import (
	"testing"

	"github.com/ausocean/osdcompose/mlog"
)

func TestValidateRejectsNegativeWorkers(t *testing.T) {
	c := Config{Workers: -1}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for negative Workers")
	}
}

func TestValidateDefaultsLogger(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Logger == nil {
		t.Fatal("Validate should default Logger when unset")
	}
}

func TestValidateKeepsExplicitLogger(t *testing.T) {
	l := mlog.New(mlog.Config{}, mlog.Info)
	c := Config{Logger: l}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Logger != l {
		t.Error("Validate should not replace an already-set Logger")
	}
}

func TestLogInvalidFieldDoesNotPanic(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	c.LogInvalidField("Workers", 0)
}
