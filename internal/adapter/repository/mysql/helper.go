package mysql

import (
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"prestamos-backend/internal/domain/errs"
)

// wrapFind maps a missing row to errs.NotFound and annotates anything else.
func wrapFind(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(resource, key)
	}
	return pkgerrors.Wrapf(err, "find %s %s", resource, key)
}

func idKey(id uint64) string { return strconv.FormatUint(id, 10) }
