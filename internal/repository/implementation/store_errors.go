package implementation

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"ai-briefbuilder-be/internal/pkg/apperror"
)

// wrapStoreError marks connectivity failures as StoreUnavailable and passes everything else through.
func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.Is(err, apperror.KindStoreUnavailable) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return apperror.StoreUnavailable(err)
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"connection refused", "broken pipe", "no such host", "database is closed"} {
		if strings.Contains(msg, hint) {
			return apperror.StoreUnavailable(err)
		}
	}
	return err
}
