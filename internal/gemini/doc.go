// Package gemini owns the Gemini protocol client engine.
//
// Ownership boundary:
// - transport connect and TLS channel setup
// - request line encoding
// - bounded header/body reads and status parsing
// - redirect chain control
package gemini
