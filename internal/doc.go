// Package internal implements the resolver service behind package pathway.
//
// Import "github.com/dmitrymomot/pathway" instead, which re-exports the public API.
package internal
