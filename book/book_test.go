package book

import (
	"testing"

	chess "github.com/mhouppin/libchessutil"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	const key1 = uint64(0x1234567890abcdef)
	m := chess.NewMove(chess.NewSquare(4, 1), chess.NewSquare(4, 3), chess.Normal)
	entries := []Entry{{Move: m, Weight: 50, GamesSeen: 10, GamesWon: 5}}

	if err := store.Put(key1, entries); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(key1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("Get reported no entry after Put")
	}
	if len(got) != 1 || got[0].Move != m || got[0].Weight != 50 {
		t.Fatalf("Get returned %+v, want %+v", got, entries)
	}
}

func TestGetMissReportsNotFound(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Get(0xdeadbeef)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("Get reported an entry for an unwritten key")
	}
}

func TestRecordGameAccumulatesAndWeighsBestMove(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	const posKey = uint64(42)
	e4 := chess.NewMove(chess.NewSquare(4, 1), chess.NewSquare(4, 3), chess.Normal)
	d4 := chess.NewMove(chess.NewSquare(3, 1), chess.NewSquare(3, 3), chess.Normal)

	if err := store.RecordGame(posKey, e4, true, false); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}
	if err := store.RecordGame(posKey, e4, true, false); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}
	if err := store.RecordGame(posKey, d4, false, false); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}

	best, ok, err := store.BestMove(posKey)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if !ok {
		t.Fatalf("BestMove reported no entry")
	}
	if best.Move != e4 {
		t.Fatalf("BestMove = %s, want %s (the all-wins move)", best.Move, e4)
	}
}
