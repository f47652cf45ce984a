package engine

import "github.com/hailam/chesscore/internal/board"

// King safety and threat terms
const (
	weakRingSquare    = 90
	ringHitWeight     = 30
	noQueenReduction  = 600
	flankAttackWeight = 5

	knightCheckWeight = 60
	bishopCheckWeight = 40
	rookCheckWeight   = 70
	queenCheckWeight  = 50

	threatByKingMg    = 12
	threatByKingEg    = 45
	hangingMg         = 35
	hangingEg         = 20
	threatByLesserMg  = 25
	threatByLesserEg  = 15
	safePawnThreatMg  = 80
	safePawnThreatEg  = 45
	pawnPushThreatMg  = 24
	pawnPushThreatEg  = 20
	passedFreeMg      = 5
	passedFreeEg      = 10
	passedSafeMg      = 5
	passedSafeEg      = 15
	passedSafeBlockEg = 6
)

// initAttacks fills the pawn and king attack maps and the mobility areas.
// Piece attacks are added by evaluateMobility.
func (ei *evalInfo) initAttacks() {
	pos := ei.pos
	for c := board.White; c <= board.Black; c++ {
		pawns := pos.Pieces[c][board.Pawn]
		pawnAttacks := pawns.PawnAttackSpan(c)
		ksq := pos.KingSquare(c)
		kingAttacks := board.KingAttacks(ksq)

		ei.attackedBy[c][board.Pawn] = pawnAttacks
		ei.attackedBy[c][board.King] = kingAttacks
		ei.attacked[c] = pawnAttacks | kingAttacks
		ei.attackedBy2[c] = pawnAttacks&kingAttacks | pawns.Forward(c).East()&pawns.Forward(c).West()
		ei.kingRing[c] = kingAttacks | board.SquareBB(ksq)
	}
	for c := board.White; c <= board.Black; c++ {
		own := pos.Pieces[c][board.Pawn] | pos.Pieces[c][board.King]
		ei.mobilityArea[c] = ^(own | ei.attackedBy[c.Other()][board.Pawn])
	}
}

// evaluateMobility scores the safe squares of every knight, bishop, rook
// and queen of c and records their attacks on the enemy king ring.
func (ei *evalInfo) evaluateMobility(c board.Color) {
	pos := ei.pos
	them := c.Other()
	for pt := board.Knight; pt <= board.Queen; pt++ {
		for bb := pos.Pieces[c][pt]; bb != 0; {
			sq := bb.PopLSB()
			attacks := board.Attacks(pt, c, sq, pos.AllOccupied)

			ei.attackedBy2[c] |= ei.attacked[c] & attacks
			ei.attacked[c] |= attacks
			ei.attackedBy[c][pt] |= attacks

			mg, eg := mobilityBonus(pt, (attacks & ei.mobilityArea[c]).PopCount())
			ei.add(c, mg, eg)

			if hits := attacks & ei.kingRing[them]; hits != 0 {
				ei.kingAttackers[c]++
				ei.kingAttackWeight[c] += kingAttackWeight[pt]
				ei.kingRingHits[c] += hits.PopCount()
			}
		}
	}
}

// kingFlank returns the files around a king on file f.
func kingFlank(f int) board.Bitboard {
	switch {
	case f <= 2:
		return board.FileA | board.FileB | board.FileC | board.FileD
	case f >= 5:
		return board.FileE | board.FileF | board.FileG | board.FileH
	}
	return board.FileC | board.FileD | board.FileE | board.FileF
}

// closest returns the square of bb nearest to c's back rank.
func closest(c board.Color, bb board.Bitboard) board.Square {
	if c == board.White {
		return bb.LSB()
	}
	return bb.MSB()
}

// evaluateKingSafety scores the shelter of c's king and the danger it is in.
func (ei *evalInfo) evaluateKingSafety(c board.Color) {
	pos := ei.pos
	them := c.Other()
	ksq := pos.KingSquare(c)
	occ := pos.AllOccupied

	// Shelter and storm on the king file and its neighbours.
	ahead := board.RankMask[ksq.Rank()] | board.RankMask[ksq.Rank()].ForwardFill(c)
	center := clamp(ksq.File(), 1, 6)
	shelter := 0
	for f := center - 1; f <= center+1; f++ {
		file := board.FileMask[f] & ahead
		ours := pos.Pieces[c][board.Pawn] & file
		theirs := pos.Pieces[them][board.Pawn] & file

		ourRank := 0
		if ours != 0 {
			ourRank = closest(c, ours).RelativeRank(c)
		}
		shelter += shelterBonus[ourRank]

		if theirs != 0 {
			theirRank := closest(c, theirs).RelativeRank(c)
			storm := stormPenalty[theirRank]
			if ourRank != 0 && ourRank == theirRank-1 {
				storm /= 2
			}
			shelter += storm
		}
	}
	ei.add(c, shelter, 0)

	// Squares the enemy attacks that only our king or queen defend.
	weak := ei.attacked[them] &^ ei.attackedBy2[c] &
		(^ei.attacked[c] | ei.attackedBy[c][board.King] | ei.attackedBy[c][board.Queen])
	safe := ^pos.Occupied[them] & (^ei.attacked[c] | weak&ei.attackedBy2[them])

	rookLines := board.RookAttacks(ksq, occ)
	bishopLines := board.BishopAttacks(ksq, occ)

	danger := ei.kingAttackers[them] * ei.kingAttackWeight[them] / 2
	danger += ringHitWeight * ei.kingRingHits[them]
	danger += weakRingSquare * (ei.kingRing[c] & weak).PopCount()
	if board.KnightAttacks(ksq)&ei.attackedBy[them][board.Knight]&safe != 0 {
		danger += knightCheckWeight
	}
	if bishopLines&ei.attackedBy[them][board.Bishop]&safe != 0 {
		danger += bishopCheckWeight
	}
	if rookLines&ei.attackedBy[them][board.Rook]&safe != 0 {
		danger += rookCheckWeight
	}
	if (rookLines|bishopLines)&ei.attackedBy[them][board.Queen]&safe != 0 {
		danger += queenCheckWeight
	}

	camp := relativeRanks(c, 0, 4) & kingFlank(ksq.File())
	flank := (ei.attacked[them] & camp).PopCount() + (ei.attackedBy2[them] & camp).PopCount()
	danger += 3 * flank * flank / 8
	ei.add(c, -flankAttackWeight*flank, 0)

	if pos.Pieces[them][board.Queen] == 0 {
		danger -= noQueenReduction
	}
	if danger > 0 {
		ei.add(c, -danger*danger/4096, -danger/16)
	}
}

// evaluateThreats scores c's attacks on enemy pieces.
func (ei *evalInfo) evaluateThreats(c board.Color) {
	pos := ei.pos
	them := c.Other()
	occ := pos.AllOccupied

	nonPawnEnemies := pos.Occupied[them] &^ pos.Pieces[them][board.Pawn] &^ pos.Pieces[them][board.King]
	stronglyProtected := ei.attackedBy[them][board.Pawn] | ei.attackedBy2[them]&^ei.attackedBy2[c]
	defended := nonPawnEnemies & stronglyProtected
	weak := pos.Occupied[them] &^ pos.Pieces[them][board.King] &^ stronglyProtected & ei.attacked[c]

	for bb := (defended | weak) & (ei.attackedBy[c][board.Knight] | ei.attackedBy[c][board.Bishop]); bb != 0; {
		pt := pos.PieceAt(bb.PopLSB()).Type()
		ei.add(c, threatByMinor[0][pt], threatByMinor[1][pt])
	}
	for bb := weak & ei.attackedBy[c][board.Rook]; bb != 0; {
		pt := pos.PieceAt(bb.PopLSB()).Type()
		ei.add(c, threatByRook[0][pt], threatByRook[1][pt])
	}
	if weak&ei.attackedBy[c][board.King] != 0 {
		ei.add(c, threatByKingMg, threatByKingEg)
	}

	hanging := weak & (^ei.attacked[them] | nonPawnEnemies&ei.attackedBy2[c])
	n := hanging.PopCount()
	ei.add(c, n*hangingMg, n*hangingEg)

	// Pieces attacked by something cheaper.
	minors := ei.attackedBy[c][board.Knight] | ei.attackedBy[c][board.Bishop]
	lesser := pos.Pieces[them][board.Rook]&(ei.attackedBy[c][board.Pawn]|minors) |
		pos.Pieces[them][board.Queen]&(ei.attackedBy[c][board.Pawn]|minors|ei.attackedBy[c][board.Rook])
	n = lesser.PopCount()
	ei.add(c, n*threatByLesserMg, n*threatByLesserEg)

	safe := ^ei.attacked[them] | ei.attacked[c]
	safePawns := pos.Pieces[c][board.Pawn] & safe
	n = (safePawns.PawnAttackSpan(c) & nonPawnEnemies).PopCount()
	ei.add(c, n*safePawnThreatMg, n*safePawnThreatEg)

	push := pos.Pieces[c][board.Pawn].Forward(c) &^ occ
	push |= (push & relativeRanks(c, 2, 2)).Forward(c) &^ occ
	push &^= ei.attackedBy[them][board.Pawn]
	push &= safe
	n = (push.PawnAttackSpan(c) & nonPawnEnemies).PopCount()
	ei.add(c, n*pawnPushThreatMg, n*pawnPushThreatEg)
}

// evaluatePassedPawns scores c's passed pawns by rank, king proximity to
// the square in front and how clear the path to promotion is.
func (ei *evalInfo) evaluatePassedPawns(c board.Color) {
	pos := ei.pos
	them := c.Other()
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[them][board.Pawn]
	ownKing := pos.KingSquare(c)
	enemyKing := pos.KingSquare(them)

	for bb := ownPawns; bb != 0; {
		sq := bb.PopLSB()
		sqBB := board.SquareBB(sq)
		path := sqBB.ForwardFill(c)

		// The rear pawn of a doubled pair is not counted.
		if path&ownPawns != 0 {
			continue
		}
		if (path|path.East()|path.West())&enemyPawns != 0 {
			continue
		}

		rank := sq.RelativeRank(c)
		ei.add(c, passedPawnMg[rank], passedPawnEg[rank])
		if rank < 3 {
			continue
		}

		w := rank - 2
		block := sqBB.Forward(c).LSB()
		ei.add(c, 0, (board.Distance(enemyKing, block)*5-board.Distance(ownKing, block)*2)*w)

		if path&pos.AllOccupied == 0 {
			ei.add(c, passedFreeMg*w, passedFreeEg*w)
		}
		if path&ei.attacked[them] == 0 {
			ei.add(c, passedSafeMg*w, passedSafeEg*w)
		} else if !ei.attacked[them].IsSet(block) {
			ei.add(c, 0, passedSafeBlockEg*w)
		}
	}
}

// evaluateSpace rewards safe central squares on c's side, counting those
// behind its pawns twice.
func (ei *evalInfo) evaluateSpace(c board.Color) {
	pos := ei.pos
	them := c.Other()
	pawns := pos.Pieces[c][board.Pawn]

	safe := board.CenterFiles & relativeRanks(c, 1, 3) &^ pawns &^ ei.attackedBy[them][board.Pawn]
	behind := pawns.Backward(c)
	behind |= behind.Backward(c)
	behind |= behind.Backward(c)

	bonus := safe.PopCount() + (behind & safe &^ ei.attacked[them]).PopCount()
	weight := max(pos.Occupied[c].PopCount()-3, 0)
	ei.add(c, bonus*weight*weight/64, 0)
}
