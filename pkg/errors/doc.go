// Package errors provides structured error handling with error codes for doccollab.
//
// Every service in this module reports failures through the Error type: a
// typed code, a human-readable message, optional structured details, and an
// optionally wrapped underlying error. Codes map to HTTP status codes at the
// API boundary.
//
// # Basic Usage
//
//	import "github.com/doccollab/doccollab/pkg/errors"
//
//	// Create a simple error
//	err := errors.New(errors.ErrCode2FAInvalid, "invalid two-factor code")
//
//	// Wrap an existing error
//	err := errors.Wrap(storeErr, errors.ErrCodePersistFailed, "failed to persist backup codes")
//
//	// Inspect
//	if errors.IsCode(err, errors.ErrCodeNoPendingSession) {
//		// caller used the API out of order
//	}
//
// Standard errors.Is / errors.As keep working through Unwrap.
package errors
