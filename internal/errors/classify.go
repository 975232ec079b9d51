package errors

import (
	stderrors "errors"

	"github.com/vango-dev/sprout/pkg/app"
	"github.com/vango-dev/sprout/pkg/driver"
	"github.com/vango-dev/sprout/pkg/export"
	"github.com/vango-dev/sprout/pkg/patch"
	"github.com/vango-dev/sprout/pkg/protocol"
	"github.com/vango-dev/sprout/pkg/server"
	"github.com/vango-dev/sprout/pkg/wire"
)

// sentinels maps package errors to codes, most specific first.
var sentinels = []struct {
	err  error
	code string
}{
	{patch.ErrDocumentAPI, "E002"},
	{patch.ErrInvalidPath, "E003"},
	{patch.ErrDanglingReference, "E004"},
	{driver.ErrNotMounted, "E005"},
	{app.ErrNotStarted, "E005"},
	{app.ErrStopped, "E006"},
	{protocol.ErrUnknownOp, "E063"},
	{wire.ErrUnknownNode, "E062"},
	{protocol.ErrInvalidFrameType, "E060"},
	{protocol.ErrFrameTooLarge, "E060"},
	{server.ErrInvalidFrame, "E060"},
	{server.ErrMaxSessionsReached, "E081"},
	{export.ErrInvalidName, "E161"},
	{export.ErrTooLarge, "E160"},
	{export.ErrNotFound, "E160"},
}

// Classify wraps err in a SproutError whose code matches the first known
// sentinel in its chain. Unknown errors get fallback. SproutErrors are
// returned unchanged.
func Classify(err error, fallback string) *SproutError {
	if err == nil {
		return nil
	}
	var se *SproutError
	if stderrors.As(err, &se) {
		return se
	}
	for _, s := range sentinels {
		if stderrors.Is(err, s.err) {
			return New(s.code).Wrap(err)
		}
	}
	return New(fallback).Wrap(err)
}
