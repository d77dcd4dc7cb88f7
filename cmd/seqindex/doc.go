// Package main hosts the seqindex CLI entrypoint and command graph.
//
// The Cobra-based command tree scans directory trees for frame sequences,
// stores the results in the local index, lists and exports stored runs, and
// decodes bracket notations for inspection. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
