// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Observability view (whenobs), extra sites in config, polar-region handling
// 0.2.0 - TUI night view, altitude sparklines, JSON night export
// 0.1.0 - Initial release: twilight windows, rise/set/transit, trajectory sampling
