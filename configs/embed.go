// Package configs embeds the annotated configuration template written by
// `docindex config init`. The template documents every key with its
// default value; see internal/config for the load order.
package configs

import _ "embed"

// ConfigTemplate is the annotated config.yaml template.
//
//go:embed config.example.yaml
var ConfigTemplate string
