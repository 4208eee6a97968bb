package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a GameState from a six-field FEN record.
func ParseFEN(fen string) (*GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("invalid FEN %q: want 6 fields, got %d", fen, len(fields))
	}

	gs := &GameState{
		repeats: make(map[PositionKey]int),
	}
	gs.node.epSquare = NoSquare

	if err := parseBoard(&gs.node.pos, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		gs.node.whiteToMove = true
	case "b":
		gs.node.whiteToMove = false
	default:
		return nil, fmt.Errorf("invalid side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				gs.node.wCastleK = true
			case 'Q':
				gs.node.wCastleQ = true
			case 'k':
				gs.node.bCastleK = true
			case 'q':
				gs.node.bCastleQ = true
			default:
				return nil, fmt.Errorf("invalid castling rights %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square %q", fields[3])
		}
		gs.node.epSquare = sq
		gs.node.epPossible = true
	}

	halfMoves, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("invalid halfmove clock %q", fields[4])
	}
	gs.node.halfMoves = halfMoves

	moveNumber, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("invalid fullmove number %q", fields[5])
	}
	gs.node.moveNumber = moveNumber

	return gs, nil
}

func parseBoard(p *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement %q: want 8 ranks, got %d", placement, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return fmt.Errorf("invalid piece character %q in rank %d", c, rank+1)
			}
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}
			p.Place(pc, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("rank %d describes %d squares, want 8", rank+1, file)
		}
	}
	return nil
}

// FEN emits the six-field FEN of the current state. Every state the engine
// can construct round-trips through ParseFEN.
func (gs *GameState) FEN() string {
	var sb strings.Builder
	sb.WriteString(gs.node.pos.BoardFEN())

	if gs.node.whiteToMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castle := ""
	if gs.node.wCastleK {
		castle += "K"
	}
	if gs.node.wCastleQ {
		castle += "Q"
	}
	if gs.node.bCastleK {
		castle += "k"
	}
	if gs.node.bCastleQ {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}
	sb.WriteString(castle)

	sb.WriteByte(' ')
	if gs.node.epPossible {
		sb.WriteString(gs.node.epSquare.String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(gs.node.halfMoves))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(gs.node.moveNumber))
	return sb.String()
}
