package engine

import "github.com/hailam/chesscore/internal/board"

// Material and placement terms
const (
	bishopPairMg      = 25
	bishopPairEg      = 50
	knightPawnBonus   = 4 // per knight, per own pawn above five
	rookPawnMg        = -5
	rookPawnEg        = -10
	longDiagonalBonus = 20
	fianchettoBonus   = 15
	blockedBishopMg   = -35
	blockedBishopEg   = -20

	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15
	rookOnSeventhMg    = 30
	rookOnSeventhEg    = 40
	doubledRooksMg     = 20
	doubledRooksEg     = 25
	queenFileMg        = 10 // rook or queen sharing a file with the enemy queen
	queenFileEg        = 5

	doubledPawnMg  = -10
	doubledPawnEg  = -20
	isolatedPawnMg = -10
	isolatedPawnEg = -15
)

var longDiagonals = board.Line(board.A1, board.H8) | board.Line(board.H1, board.A8)

func (ei *evalInfo) evaluateMaterial(c board.Color) {
	pos := ei.pos
	for pt := board.Pawn; pt < board.King; pt++ {
		n := pos.Pieces[c][pt].PopCount()
		ei.add(c, n*pieceValueMg[pt], n*pieceValueEg[pt])
	}

	if pos.Pieces[c][board.Bishop].Several() {
		ei.add(c, bishopPairMg, bishopPairEg)
	}

	// Knights gain in closed positions.
	if extra := pos.Pieces[c][board.Pawn].PopCount() - 5; extra > 0 {
		v := extra * knightPawnBonus * pos.Pieces[c][board.Knight].PopCount()
		ei.add(c, v, v)
	}

	n := (pos.Pieces[c][board.Pawn] & (board.FileA | board.FileH)).PopCount()
	ei.add(c, n*rookPawnMg, n*rookPawnEg)
}

func (ei *evalInfo) evaluatePlacement(c board.Color) {
	pos := ei.pos
	for pt := board.Pawn; pt < board.King; pt++ {
		for bb := pos.Pieces[c][pt]; bb != 0; {
			v := psts[pt][pstIndex(c, bb.PopLSB())]
			ei.add(c, v, v)
		}
	}
	ksq := pstIndex(c, pos.KingSquare(c))
	ei.add(c, kingMidgamePST[ksq], kingEndgamePST[ksq])

	ei.evaluateBishops(c)
	ei.evaluateRooks(c)
	ei.evaluatePawnStructure(c)
}

func (ei *evalInfo) evaluateBishops(c board.Color) {
	pos := ei.pos
	pawns := pos.Pieces[board.White][board.Pawn] | pos.Pieces[board.Black][board.Pawn]
	ownPawns := pos.Pieces[c][board.Pawn]
	ksq := pos.KingSquare(c)

	for bb := pos.Pieces[c][board.Bishop]; bb != 0; {
		sq := bb.PopLSB()

		// Sees both center squares of its long diagonal through pawns.
		if longDiagonals.IsSet(sq) && (board.BishopAttacks(sq, pawns) & board.Center).Several() {
			ei.add(c, longDiagonalBonus, 0)
		}

		switch sq {
		case board.RelativeSquare(c, board.B2), board.RelativeSquare(c, board.G2):
			flank := board.KingSide
			front := board.RelativeSquare(c, board.G3)
			if sq.File() < 4 {
				flank = board.QueenSide
				front = board.RelativeSquare(c, board.B3)
			}
			if ownPawns.IsSet(front) && flank.IsSet(ksq) {
				ei.add(c, fianchettoBonus, 0)
			}
		case board.RelativeSquare(c, board.C1):
			if ownPawns.IsSet(board.RelativeSquare(c, board.D2)) && !pos.IsEmpty(board.RelativeSquare(c, board.D3)) {
				ei.add(c, blockedBishopMg, blockedBishopEg)
			}
		case board.RelativeSquare(c, board.F1):
			if ownPawns.IsSet(board.RelativeSquare(c, board.E2)) && !pos.IsEmpty(board.RelativeSquare(c, board.E3)) {
				ei.add(c, blockedBishopMg, blockedBishopEg)
			}
		}
	}
}

func (ei *evalInfo) evaluateRooks(c board.Color) {
	pos := ei.pos
	them := c.Other()
	ownPawns := pos.Pieces[c][board.Pawn]
	enemyPawns := pos.Pieces[them][board.Pawn]
	rooks := pos.Pieces[c][board.Rook]
	enemyQueenFiles := pos.Pieces[them][board.Queen].FileFill()
	seventh := relativeRanks(c, 6, 6)
	eighth := relativeRanks(c, 7, 7)

	for bb := rooks; bb != 0; {
		sq := bb.PopLSB()
		file := board.FileMask[sq.File()]

		if file&ownPawns == 0 {
			if file&enemyPawns == 0 {
				ei.add(c, rookOpenFileMg, rookOpenFileEg)
				if (rooks & file).Several() {
					ei.add(c, doubledRooksMg, doubledRooksEg)
				}
			} else {
				ei.add(c, rookSemiOpenFileMg, rookSemiOpenFileEg)
			}
		}

		if seventh.IsSet(sq) && (enemyPawns&seventh != 0 || pos.Pieces[them][board.King]&eighth != 0) {
			ei.add(c, rookOnSeventhMg, rookOnSeventhEg)
		}

		if enemyQueenFiles.IsSet(sq) {
			ei.add(c, queenFileMg, queenFileEg)
		}
	}

	n := (pos.Pieces[c][board.Queen] & enemyQueenFiles).PopCount()
	ei.add(c, n*queenFileMg, n*queenFileEg)
}

func (ei *evalInfo) evaluatePawnStructure(c board.Color) {
	pawns := ei.pos.Pieces[c][board.Pawn]
	for bb := pawns; bb != 0; {
		sq := bb.PopLSB()
		sqBB := board.SquareBB(sq)

		if sqBB.ForwardFill(c)&pawns != 0 {
			ei.add(c, doubledPawnMg, doubledPawnEg)
		}

		adjacent := (sqBB.East() | sqBB.West()).FileFill()
		if adjacent&pawns == 0 {
			ei.add(c, isolatedPawnMg, isolatedPawnEg)
		}
	}
}
