// Package errors provides the classified error primitives used across navaudit.
//
// Errors carry a category that decides how the audit reacts to them:
//   - CategoryConfig: the navigation declaration cannot be used; the run aborts.
//   - CategoryFileSystem: a single document or probe failed; recorded, run continues.
//   - CategoryTable: one external-reference table entry is unusable; reported as
//     a resolution failure for that entry.
//   - CategoryValidation: caller supplied options are invalid.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryConfig, "include cycle").
//		Fatal().
//		WithContext("path", includePath).
//		WithCause(mkdocs.ErrIncludeCycle).
//		Build()
package errors
