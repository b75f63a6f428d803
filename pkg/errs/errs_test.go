package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Run("application error", func(t *testing.T) {
		err := Errorf(ENOTFOUND, "User not found.")
		assert.Equal(t, ENOTFOUND, ErrorCode(err))
		assert.Equal(t, "User not found.", ErrorMessage(err))
	})

	t.Run("wrapped application error keeps its code", func(t *testing.T) {
		err := fmt.Errorf("handling request: %w", Errorf(EFORBIDDEN, "No."))
		assert.Equal(t, EFORBIDDEN, ErrorCode(err))
		assert.Equal(t, "No.", ErrorMessage(err))
	})

	t.Run("foreign error collapses to internal", func(t *testing.T) {
		err := errors.New("pq: connection refused")
		assert.Equal(t, EINTERNAL, ErrorCode(err))
		assert.Equal(t, "An internal error has occurred.", ErrorMessage(err))
	})

	t.Run("nil error has no code", func(t *testing.T) {
		assert.Equal(t, "", ErrorCode(nil))
		assert.Equal(t, "", ErrorMessage(nil))
	})
}

func TestErrorString(t *testing.T) {
	err := Errorf(EINVALID, "Field %q is required.", "username")
	assert.Equal(t, `invalid: Field "username" is required.`, err.Error())
}
