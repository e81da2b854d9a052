/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/fulmenhq/supportsync/internal/gitctx"
	"github.com/fulmenhq/supportsync/pkg/exitcode"
	"github.com/fulmenhq/supportsync/pkg/manifest"
	"github.com/fulmenhq/supportsync/pkg/reconcile"
	"github.com/fulmenhq/supportsync/pkg/target"
)

// exitCodeFor maps an error returned by a command to its exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}

	var coded *exitcode.Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return exitcode.TimeoutError
	case errors.Is(err, reconcile.ErrNotFound),
		errors.Is(err, reconcile.ErrAmbiguous),
		errors.Is(err, target.ErrTargetMissing),
		errors.Is(err, manifest.ErrDirMissing):
		return exitcode.NotFound
	case errors.Is(err, reconcile.ErrEmptySet),
		errors.Is(err, reconcile.ErrNoValidVersions),
		errors.Is(err, reconcile.ErrFormat):
		return exitcode.ValidationError
	case errors.Is(err, manifest.ErrClone):
		return exitcode.NetworkError
	case errors.Is(err, gitctx.ErrNotRepository):
		return exitcode.NotRepository
	case errors.Is(err, os.ErrPermission):
		return exitcode.PermissionError
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return exitcode.FileSystemError
	}
	return exitcode.GeneralError
}
