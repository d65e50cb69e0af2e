package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/holiday"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/section"
	"github.com/trezcool/shule/core/user"
)

// DB is an in-memory stand-in for the real database; used in tests and
// local hacking. A single lock serializes writes so multi-table
// operations (cascade delete, conflict scans) stay atomic, like their
// SQL counterparts.
type DB struct {
	mutex sync.RWMutex

	users    map[string]*user.User
	sections map[string]*section.Section
	entries  map[string]*schedule.Entry
	holidays map[string]*holiday.Holiday
	leaves   map[string]*leave.Request
}

func Open() *DB {
	return &DB{
		users:    make(map[string]*user.User),
		sections: make(map[string]*section.Section),
		entries:  make(map[string]*schedule.Entry),
		holidays: make(map[string]*holiday.Holiday),
		leaves:   make(map[string]*leave.Request),
	}
}
