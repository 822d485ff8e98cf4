// Package cliutil holds the small pieces of plumbing shared by the
// pietasm and pieti command trees: logger construction from the
// --verbose flag.
package cliutil

import "go.uber.org/zap"

// NewLogger returns a development logger on stderr. When verbose is not
// set it writes only Warn level and above (such as the VM's non-fatal
// runtime errors), without stack traces.
func NewLogger(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar()
}
