package models

import (
	"fmt"
	"strings"
)

// BackendKind selects which completion capability answers a submission.
type BackendKind string

const (
	BackendNone    BackendKind = "none"
	BackendHosted  BackendKind = "hosted_api"
	BackendLocal   BackendKind = "local_pipeline"
	DefaultModel               = "gpt-3.5-turbo"
	DefaultMaxTokens           = 1024
)

// BackendConfig is an immutable value describing the completion backend for a
// session. A fresh adapter is built from it on every call rather than caching
// a client.
type BackendConfig struct {
	Kind        BackendKind `json:"kind"`
	Credential  string      `json:"credential,omitempty"`
	BaseURL     string      `json:"base_url,omitempty"`
	Model       string      `json:"model"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens,omitempty"`

	// Local pipeline generation parameters.
	MaxNewTokens  int     `json:"max_new_tokens,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
}

// Normalize fills defaults and degrades a hosted backend without a credential
// to BackendNone.
func (c BackendConfig) Normalize() BackendConfig {
	if c.Kind == "" {
		c.Kind = BackendNone
	}
	if c.Kind == BackendHosted && strings.TrimSpace(c.Credential) == "" {
		c.Kind = BackendNone
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxNewTokens <= 0 {
		c.MaxNewTokens = 256
	}
	if c.TopP <= 0 {
		c.TopP = 0.95
	}
	if c.RepeatPenalty <= 0 {
		c.RepeatPenalty = 1.1
	}
	return c
}

// Validate rejects configurations outside the accepted parameter space.
func (c BackendConfig) Validate() error {
	switch c.Kind {
	case BackendNone, BackendHosted, BackendLocal, "":
	default:
		return fmt.Errorf("unknown backend kind: %s", c.Kind)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0.0, 2.0]", c.Temperature)
	}
	return nil
}

// CredentialLooksValid reports whether a hosted API credential matches the
// expected bearer secret shape.
func CredentialLooksValid(credential string) bool {
	return strings.HasPrefix(strings.TrimSpace(credential), "sk-")
}
