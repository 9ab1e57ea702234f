package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
)

// translateStoreError maps driver errors onto the domain taxonomy so usecases
// never inspect driver types.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	if errors.Is(err, domainerrors.ErrLockTimeout) || errors.Is(err, domainerrors.ErrStoreUnavailable) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "55P03", // lock_not_available
			pqErr.Code == "40P01", // deadlock_detected
			pqErr.Code == "57014": // query_canceled
			return fmt.Errorf("%w: %w", domainerrors.ErrLockTimeout, err)
		case pqErr.Code.Class() == "08",
			pqErr.Code == "57P01", pqErr.Code == "57P02", pqErr.Code == "57P03":
			return fmt.Errorf("%w: %w", domainerrors.ErrStoreUnavailable, err)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domainerrors.ErrLockTimeout, err)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", domainerrors.ErrStoreUnavailable, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %w", domainerrors.ErrStoreUnavailable, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database table is locked"):
		return fmt.Errorf("%w: %w", domainerrors.ErrLockTimeout, err)
	case strings.Contains(msg, "sql: database is closed"), strings.Contains(msg, "connection refused"):
		return fmt.Errorf("%w: %w", domainerrors.ErrStoreUnavailable, err)
	}
	return err
}
