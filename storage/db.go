package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/core/rawdb"
	gethleveldb "github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/syndtr/goleveldb/leveldb"
)

// Database is a generic interface for a key-value store backing the platform
// state. Plain Put/Get serve side metadata (latest committed root and the
// like) while TrieDB exposes the node store consumed by the state trie.
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Close()
	TrieDB() *triedb.Database
}

// --- In-Memory DB (for testing) ---

type MemDB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	trieDB *triedb.Database
}

func NewMemDB() *MemDB {
	backend := rawdb.NewDatabase(memorydb.New())
	return &MemDB{
		data:   make(map[string][]byte),
		trieDB: triedb.NewDatabase(backend, triedb.HashDefaults),
	}
}

func (db *MemDB) Put(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[string(key)] = value
	return nil
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data[string(key)]
	if !ok {
		return nil, fmt.Errorf("key not found")
	}
	return value, nil
}

// Close satisfies the Database interface for MemDB.
func (db *MemDB) Close() {
	// Nothing to close for an in-memory database.
}

func (db *MemDB) TrieDB() *triedb.Database {
	return db.trieDB
}

// --- Persistent DB ---

// LevelDB is a persistent key-value store. Metadata lives in a plain LevelDB
// instance; trie nodes are stored in a sibling namespace managed by the trie
// database.
type LevelDB struct {
	db     *leveldb.DB
	nodes  *gethleveldb.Database
	trieDB *triedb.Database
}

// NewLevelDB creates or opens the databases under the specified directory.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(filepath.Join(path, "meta"), nil)
	if err != nil {
		return nil, err
	}
	nodes, err := gethleveldb.New(filepath.Join(path, "state"), 0, 0, "attnchain/state", false)
	if err != nil {
		db.Close()
		return nil, err
	}
	backend := rawdb.NewDatabase(nodes)
	return &LevelDB{
		db:     db,
		nodes:  nodes,
		trieDB: triedb.NewDatabase(backend, triedb.HashDefaults),
	}, nil
}

// Put inserts or updates a key-value pair.
func (ldb *LevelDB) Put(key []byte, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

// Get retrieves a value for a given key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

// Close closes the database connections.
func (ldb *LevelDB) Close() {
	ldb.db.Close()
	ldb.nodes.Close()
}

func (ldb *LevelDB) TrieDB() *triedb.Database {
	return ldb.trieDB
}
