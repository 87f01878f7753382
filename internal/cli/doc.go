// Package cli handles command-line argument parsing for patchwire.
package cli
