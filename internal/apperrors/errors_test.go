package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindConflict, KindOf(Conflict("dupe")))
	assert.Equal(t, KindInvalidArgument, KindOf(InvalidArgument("bad")))
	assert.Equal(t, KindUnavailable, KindOf(Unavailable("down", errors.New("io"))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestMessageOfHidesForeignErrors(t *testing.T) {
	assert.Equal(t, "missing", MessageOf(NotFound("missing")))
	assert.Equal(t, "internal error", MessageOf(errors.New("sql: connection refused")))
}

func TestUnavailableWraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable("store unreachable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store unreachable", MessageOf(err))
}
