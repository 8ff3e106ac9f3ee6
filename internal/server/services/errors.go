package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

// classify lets caller-facing conditions through and turns anything else
// into common.ErrorInternal after logging the detail.
func classify(ctx context.Context, log logging.Logger, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorForbidden):
		return err
	}

	log.Error(ctx, op+" failed", "error", err)
	return fmt.Errorf("%w: %s", common.ErrorInternal, op)
}

// wrapNotFound prefixes a not-found error with the missing entity so the
// caller sees which reference failed.
func wrapNotFound(err error, format string, args ...any) error {
	if err == nil || !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
