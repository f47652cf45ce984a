package engine

import (
	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
)

// Bound indicates how a stored score relates to the true score.
type Bound uint8

const (
	BoundExact Bound = iota // Exact score
	BoundLower              // Failed high (beta cutoff)
	BoundUpper              // Failed low
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "unknown"
}

// DefaultTTCapacity is the default number of positions kept.
const DefaultTTCapacity = 1 << 20

// TTEntry is one stored search result.
type TTEntry struct {
	Key      uint64
	Depth    int
	Score    int
	Bound    Bound
	BestMove board.Move
}

// TTStats reports table usage since the last Clear.
type TTStats struct {
	Probes uint64
	Hits   uint64
	Stores uint64
	Resets uint64 // wholesale clears on overflow
}

// TranspositionTable maps Zobrist keys to search results. It is not safe
// for concurrent use; each Searcher owns its own.
type TranspositionTable struct {
	entries  map[uint64]TTEntry
	capacity int
	stats    TTStats
	log      logr.Logger
}

// NewTranspositionTable creates a table holding at most capacity entries.
// Storing past capacity empties the table first.
func NewTranspositionTable(capacity int, log logr.Logger) *TranspositionTable {
	if capacity <= 0 {
		capacity = DefaultTTCapacity
	}
	return &TranspositionTable{
		entries:  make(map[uint64]TTEntry),
		capacity: capacity,
		log:      log,
	}
}

// Probe looks up a position in the transposition table.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.stats.Probes++
	entry, ok := tt.entries[hash]
	if ok {
		tt.stats.Hits++
	}
	return entry, ok
}

// Store saves a search result, replacing any previous entry for hash.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, bound Bound, best board.Move) {
	if _, ok := tt.entries[hash]; !ok && len(tt.entries) >= tt.capacity {
		tt.log.V(1).Info("transposition table full, clearing", "entries", len(tt.entries), "capacity", tt.capacity)
		clear(tt.entries)
		tt.stats.Resets++
	}
	tt.entries[hash] = TTEntry{Key: hash, Depth: depth, Score: score, Bound: bound, BestMove: best}
	tt.stats.Stores++
}

// Clear empties the table and resets its statistics.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.stats = TTStats{}
}

// Len returns the number of stored positions.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// Capacity returns the maximum number of stored positions.
func (tt *TranspositionTable) Capacity() int {
	return tt.capacity
}

// Stats returns usage counters.
func (tt *TranspositionTable) Stats() TTStats {
	return tt.stats
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.stats.Probes == 0 {
		return 0
	}
	return float64(tt.stats.Hits) / float64(tt.stats.Probes) * 100
}

// usable reports whether e answers a search of depth within (alpha, beta).
func (e TTEntry) usable(depth, alpha, beta int) bool {
	if e.Depth < depth {
		return false
	}
	switch e.Bound {
	case BoundExact:
		return true
	case BoundLower:
		return e.Score >= beta
	case BoundUpper:
		return e.Score <= alpha
	}
	return false
}

// AdjustScoreFromTT converts a stored mate score to one relative to ply.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a mate score at ply to one relative to the
// stored node.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
