// Package book implements a Polyglot-style opening book backed by an
// embedded key-value store: best-move statistics per position, keyed by
// the Polyglot-compatible Zobrist key (the en-passant component keyed by
// geometric availability rather than actual capturability — see
// chess.Position.PolyglotEP).
package book

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	chess "github.com/mhouppin/libchessutil"
)

// Entry is one recorded move's statistics for a given position.
type Entry struct {
	Move       chess.Move `json:"move"`
	Weight     uint16     `json:"weight"`
	GamesSeen  uint32     `json:"games_seen"`
	GamesWon   uint32     `json:"games_won"`
	GamesDrawn uint32     `json:"games_drawn"`
}

// Store is an opening book persisted in an embedded badger database.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a book at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// key encodes a Polyglot-compatible Zobrist key as its big-endian bytes, the
// natural sort-friendly byte representation for a badger key.
func key(polyglotKey uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], polyglotKey)
	return b[:]
}

// Put records or replaces the full set of move entries for the position
// identified by polyglotKey.
func (s *Store) Put(polyglotKey uint64, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("book: marshal entries: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(polyglotKey), data)
	})
}

// Get returns the recorded move entries for polyglotKey, or (nil, false) if
// the position has no book entry.
func (s *Store) Get(polyglotKey uint64) ([]Entry, bool, error) {
	var entries []Entry
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(polyglotKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("book: get: %w", err)
	}
	return entries, found, nil
}

// BestMove returns the highest-weighted entry for polyglotKey, or false if
// the position has no book entry.
func (s *Store) BestMove(polyglotKey uint64) (Entry, bool, error) {
	entries, ok, err := s.Get(polyglotKey)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.Weight > best.Weight {
			best = e
		}
	}
	return best, true, nil
}

// RecordGame updates (or creates) the entry for m in the position
// identified by polyglotKey, given the game's eventual outcome from the
// mover's point of view.
func (s *Store) RecordGame(polyglotKey uint64, m chess.Move, won, drawn bool) error {
	entries, _, err := s.Get(polyglotKey)
	if err != nil {
		return err
	}

	idx := -1
	for i, e := range entries {
		if e.Move == m {
			idx = i
			break
		}
	}
	if idx < 0 {
		entries = append(entries, Entry{Move: m})
		idx = len(entries) - 1
	}

	e := &entries[idx]
	e.GamesSeen++
	switch {
	case won:
		e.GamesWon++
	case drawn:
		e.GamesDrawn++
	}
	e.Weight = uint16(100 * (2*uint32(e.GamesWon) + uint32(e.GamesDrawn)) / (2 * e.GamesSeen))

	return s.Put(polyglotKey, entries)
}
