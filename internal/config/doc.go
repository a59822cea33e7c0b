// Package config provides configuration loading, merging, and validation
// facilities for flatnotes.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources fill in fields still unset by earlier ones):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetClientConfig] for the interactive client and
// [GetServerConfig] for the reference server.
package config
