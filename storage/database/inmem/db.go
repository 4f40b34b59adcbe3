package inmemdb

import (
	"sync"

	"github.com/Diva-jaw/Frontend--sub001/core/enrollment"
)

type (
	DB struct {
		lead *leadTable
	}

	leadTable struct {
		mutex sync.RWMutex
		table map[string]*enrollment.Lead
	}
)

func Open() *DB {
	return &DB{
		lead: &leadTable{table: make(map[string]*enrollment.Lead)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.lead.mutex.Lock()
	db.lead.table = make(map[string]*enrollment.Lead)
	db.lead.mutex.Unlock()
}
