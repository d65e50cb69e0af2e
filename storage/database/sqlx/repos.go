package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// wrapDBErr annotates repository errors. Connection-level failures become
// shutdown errors so the API error handler can stop the app instead of
// serving requests off a dead pool.
func wrapDBErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if err == driver.ErrBadConn || err == sql.ErrConnDone {
		return errors.Wrap(core.NewShutdownError(err.Error()), msg)
	}
	return errors.Wrap(err, msg)
}
