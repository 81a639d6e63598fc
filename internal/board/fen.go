package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare
	pos.CastleRookFrom[White][0] = NoSquare
	pos.CastleRookFrom[White][1] = NoSquare
	pos.CastleRookFrom[Black][0] = NoSquare
	pos.CastleRookFrom[Black][1] = NoSquare

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}
	// King squares must be known before the castling field is parsed, since
	// Chess960 rook lookups are relative to the king's file.
	pos.findKings()

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	// Update derived state
	pos.updateOccupied()
	pos.findKings()
	pos.Hash = pos.ComputeHash()
	pos.PawnKey = pos.ComputePawnKey()
	pos.UpdateCheckers()

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				file += int(c - '0')
			} else {
				// Place a piece
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				sq := NewSquare(file, rank)
				pos.setPiece(piece, sq)
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// findCastleRook locates the rook that a castling right refers to: the
// nearest rook on the back rank beyond the king's file on the requested
// side. Used for standard/X-FEN letters (K/Q/k/q), where the rook's
// square must be discovered rather than read directly off the field.
func findCastleRook(pos *Position, c Color, kingSide bool) Square {
	rank := 0
	if c == Black {
		rank = 7
	}
	kingFile := pos.KingSquare[c].File()
	rooks := pos.Pieces[c][Rook]
	best := NoSquare
	for rooks != 0 {
		sq := rooks.PopLSB()
		if sq.Rank() != rank {
			continue
		}
		f := sq.File()
		if kingSide && f > kingFile {
			if best == NoSquare || f < best.File() {
				best = sq
			}
		} else if !kingSide && f < kingFile {
			if best == NoSquare || f > best.File() {
				best = sq
			}
		}
	}
	return best
}

// parseCastlingRights parses the castling rights section of a FEN string.
// Accepts standard/X-FEN letters (KQkq, rook square inferred from the
// king's position) and Shredder-FEN file letters (A-H/a-h, which name the
// rook's file directly and mark the position as Chess960).
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights |= WhiteKingSideCastle
			pos.CastleRookFrom[White][0] = findCastleRook(pos, White, true)
		case 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
			pos.CastleRookFrom[White][1] = findCastleRook(pos, White, false)
		case 'k':
			pos.CastlingRights |= BlackKingSideCastle
			pos.CastleRookFrom[Black][0] = findCastleRook(pos, Black, true)
		case 'q':
			pos.CastlingRights |= BlackQueenSideCastle
			pos.CastleRookFrom[Black][1] = findCastleRook(pos, Black, false)
		default:
			upper := c >= 'A' && c <= 'H'
			lower := c >= 'a' && c <= 'h'
			if !upper && !lower {
				return fmt.Errorf("invalid castling character: %c", c)
			}
			pos.Chess960 = true
			col := White
			file := int(c - 'A')
			if lower {
				col = Black
				file = int(c - 'a')
			}
			rank := 0
			if col == Black {
				rank = 7
			}
			rookSq := NewSquare(file, rank)
			kingSide := file > pos.KingSquare[col].File()
			if col == White {
				if kingSide {
					pos.CastlingRights |= WhiteKingSideCastle
					pos.CastleRookFrom[White][0] = rookSq
				} else {
					pos.CastlingRights |= WhiteQueenSideCastle
					pos.CastleRookFrom[White][1] = rookSq
				}
			} else {
				if kingSide {
					pos.CastlingRights |= BlackKingSideCastle
					pos.CastleRookFrom[Black][0] = rookSq
				} else {
					pos.CastlingRights |= BlackQueenSideCastle
					pos.CastleRookFrom[Black][1] = rookSq
				}
			}
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(p.CastlingFEN())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// CastlingFEN renders the castling rights field. Standard games use KQkq;
// Chess960 games use Shredder file letters naming each right's rook.
func (p *Position) CastlingFEN() string {
	if p.CastlingRights == NoCastling {
		return "-"
	}
	if !p.Chess960 {
		return p.CastlingRights.String()
	}
	var sb strings.Builder
	if p.CastlingRights&WhiteKingSideCastle != 0 {
		sb.WriteByte('A' + byte(p.CastleRookFrom[White][0].File()))
	}
	if p.CastlingRights&WhiteQueenSideCastle != 0 {
		sb.WriteByte('A' + byte(p.CastleRookFrom[White][1].File()))
	}
	if p.CastlingRights&BlackKingSideCastle != 0 {
		sb.WriteByte('a' + byte(p.CastleRookFrom[Black][0].File()))
	}
	if p.CastlingRights&BlackQueenSideCastle != 0 {
		sb.WriteByte('a' + byte(p.CastleRookFrom[Black][1].File()))
	}
	return sb.String()
}

// ComputeHash computes the Zobrist hash for the position from scratch,
// using the keys initialised in zobrist.go.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	// Hash pieces
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= zobristPiece[c][pt][sq]
			}
		}
	}

	// Hash side to move
	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	// Hash castling rights
	hash ^= zobristCastling[p.CastlingRights]

	// Hash en passant
	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}

// ComputePawnKey computes the pawn hash key from scratch.
// Only includes pawn positions for pawn structure caching.
func (p *Position) ComputePawnKey() uint64 {
	var key uint64

	for c := White; c <= Black; c++ {
		bb := p.Pieces[c][Pawn]
		for bb != 0 {
			sq := bb.PopLSB()
			key ^= zobristPiece[c][Pawn][sq]
		}
	}

	return key
}
