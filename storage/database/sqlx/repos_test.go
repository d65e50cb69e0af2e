package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
)

func TestWrapDBErr(t *testing.T) {
	assert.NoError(t, wrapDBErr(nil, "noop"))

	err := wrapDBErr(errors.New("boom"), "inserting user")
	assert.EqualError(t, err, "inserting user: boom")
	assert.False(t, core.IsShutdown(err))

	for _, fatal := range []error{driver.ErrBadConn, sql.ErrConnDone} {
		err = wrapDBErr(fatal, "querying users")
		assert.True(t, core.IsShutdown(err))
	}
}
