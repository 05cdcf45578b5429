// Package registry persists named agent and workflow configurations as YAML
// files and serves them to the rest of the system.
//
// Layout on disk mirrors the configuration model: agents live as
// <dir>/<name>.yaml, workflows as <dir>/workflows/<name>.yaml. Persistence is
// last-write-wins with no durability guarantees beyond the filesystem's; a
// file that fails to parse is logged and skipped rather than failing the
// whole load. The registry is safe for concurrent use and optionally watches
// its directory for out-of-band edits.
package registry
