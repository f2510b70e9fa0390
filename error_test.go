package siteaudit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := siteaudit.Errorf(siteaudit.ENOTFOUND, "override %q not found", "test")

	assert.Equal(t, siteaudit.ENOTFOUND, siteaudit.ErrorCode(err))
	assert.Equal(t, "override \"test\" not found", siteaudit.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, siteaudit.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, siteaudit.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("crawl: %w", siteaudit.Errorf(siteaudit.EUNREACHABLE, "homepage down"))

	assert.Equal(t, siteaudit.EUNREACHABLE, siteaudit.ErrorCode(err))
	assert.Equal(t, "homepage down", siteaudit.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, siteaudit.EINTERNAL, siteaudit.ErrorCode(err))
	assert.Equal(t, "Internal error", siteaudit.ErrorMessage(err))
}
