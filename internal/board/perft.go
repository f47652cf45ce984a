package board

// Perft counts the legal move sequences of the given length from the
// current position. The position is restored before returning.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	var ml MoveList
	p.LegalMoves(p.SideToMove, &ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Slice() {
		p.Apply(m)
		nodes += p.Perft(depth - 1)
		p.Undo()
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide returns the perft count below each legal root move, in
// generation order.
func (p *Position) PerftDivide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	var ml MoveList
	p.LegalMoves(p.SideToMove, &ml)

	entries := make([]DivideEntry, 0, ml.Len())
	for _, m := range ml.Slice() {
		p.Apply(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: p.Perft(depth - 1)})
		p.Undo()
	}
	return entries
}
