package inmemdb

import (
	"sync"

	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/authcode"
	"github.com/kelasku/jurnalkelas/core/journal"
)

// DB is the in-memory store used in DEV|TEST mode. Tables are slices so
// listings keep insertion order, matching the durable stores.
type DB struct {
	mutex    sync.RWMutex
	accounts []account.Account
	codes    []authcode.Code
	entries  []journal.Entry
}

func Open() (*DB, error) {
	return &DB{}, nil
}
