// Package repository defines error values that are reused across the
// repositories.  Repositories report "no row" with sql.ErrNoRows (as the
// database/sql layer does) and translate constraint failures into the
// sentinels below; services map them to client-facing errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert violates a unique index, such as
// registering an email that already exists.
var ErrDuplicate = errors.New("duplicate")

// ErrOverlap is returned when a timesheet entry would overlap another entry
// of the same user on the same date.
var ErrOverlap = errors.New("overlapping entry")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
