// Package gate decides which view is reachable for a given session state.
package gate
