package checkers

import (
	"bytes"
	"fmt"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

// EncodeCBOR encodes s as DAG-CBOR using the same field names as the JSON
// wire format. Colors are strings, squares are two element integer lists.
func EncodeCBOR(s Snapshot) ([]byte, error) {
	node, err := qp.BuildMap(basicnode.Prototype.Any, 6, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "board", qp.List(int64(len(s.Board)), func(la datamodel.ListAssembler) {
			for _, cells := range s.Board {
				cells := cells
				qp.ListEntry(la, qp.List(int64(len(cells)), func(la datamodel.ListAssembler) {
					for _, p := range cells {
						qp.ListEntry(la, pieceNode(p))
					}
				}))
			}
		}))
		qp.MapEntry(ma, "current_player", colorNode(s.CurrentPlayer))
		if s.SelectedPiece != nil {
			qp.MapEntry(ma, "selected_piece", squareNode(*s.SelectedPiece))
		} else {
			qp.MapEntry(ma, "selected_piece", qp.Null())
		}
		qp.MapEntry(ma, "valid_moves", qp.List(int64(len(s.ValidMoves)), func(la datamodel.ListAssembler) {
			for _, sq := range s.ValidMoves {
				qp.ListEntry(la, squareNode(sq))
			}
		}))
		qp.MapEntry(ma, "must_capture", qp.Bool(s.MustCapture))
		qp.MapEntry(ma, "winner", colorNode(s.Winner))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot node: %w", err)
	}

	var buf bytes.Buffer
	if err := dagcbor.Encode(node, &buf); err != nil {
		return nil, fmt.Errorf("failed to encode CBOR: %w", err)
	}
	return buf.Bytes(), nil
}

func pieceNode(p *Piece) qp.Assemble {
	if p == nil {
		return qp.Null()
	}
	return qp.Map(2, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "color", qp.String(p.Color.String()))
		qp.MapEntry(ma, "king", qp.Bool(p.King))
	})
}

func colorNode(c Color) qp.Assemble {
	if c == NoColor {
		return qp.Null()
	}
	return qp.String(c.String())
}

func squareNode(sq Square) qp.Assemble {
	return qp.List(2, func(la datamodel.ListAssembler) {
		qp.ListEntry(la, qp.Int(int64(sq.Row)))
		qp.ListEntry(la, qp.Int(int64(sq.Col)))
	})
}

// DecodeCBOR decodes and validates a snapshot produced by EncodeCBOR.
func DecodeCBOR(data []byte) (Snapshot, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(data)); err != nil {
		return Snapshot{}, fmt.Errorf("%w: failed to decode CBOR: %v", ErrInvalidSnapshot, err)
	}
	node := nb.Build()

	s, err := snapshotFromNode(node)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func snapshotFromNode(node ipld.Node) (Snapshot, error) {
	if node.Kind() != ipld.Kind_Map {
		return Snapshot{}, fmt.Errorf("snapshot must be a map, got %v", node.Kind())
	}

	var s Snapshot

	boardNode, err := node.LookupByString("board")
	if err != nil {
		return Snapshot{}, fmt.Errorf("board: %w", err)
	}
	rows := boardNode.ListIterator()
	if rows == nil {
		return Snapshot{}, fmt.Errorf("board must be a list")
	}
	for !rows.Done() {
		_, rowNode, err := rows.Next()
		if err != nil {
			return Snapshot{}, err
		}
		cells := rowNode.ListIterator()
		if cells == nil {
			return Snapshot{}, fmt.Errorf("board row must be a list")
		}
		var row []*Piece
		for !cells.Done() {
			_, cell, err := cells.Next()
			if err != nil {
				return Snapshot{}, err
			}
			p, err := pieceFromNode(cell)
			if err != nil {
				return Snapshot{}, err
			}
			row = append(row, p)
		}
		s.Board = append(s.Board, row)
	}

	if s.CurrentPlayer, err = colorField(node, "current_player"); err != nil {
		return Snapshot{}, err
	}
	if s.Winner, err = colorField(node, "winner"); err != nil {
		return Snapshot{}, err
	}

	selNode, err := node.LookupByString("selected_piece")
	if err != nil {
		return Snapshot{}, fmt.Errorf("selected_piece: %w", err)
	}
	if !selNode.IsNull() {
		sq, err := squareFromNode(selNode)
		if err != nil {
			return Snapshot{}, fmt.Errorf("selected_piece: %w", err)
		}
		s.SelectedPiece = &sq
	}

	movesNode, err := node.LookupByString("valid_moves")
	if err != nil {
		return Snapshot{}, fmt.Errorf("valid_moves: %w", err)
	}
	moves := movesNode.ListIterator()
	if moves == nil {
		return Snapshot{}, fmt.Errorf("valid_moves must be a list")
	}
	s.ValidMoves = []Square{}
	for !moves.Done() {
		_, mv, err := moves.Next()
		if err != nil {
			return Snapshot{}, err
		}
		sq, err := squareFromNode(mv)
		if err != nil {
			return Snapshot{}, fmt.Errorf("valid_moves: %w", err)
		}
		s.ValidMoves = append(s.ValidMoves, sq)
	}

	mcNode, err := node.LookupByString("must_capture")
	if err != nil {
		return Snapshot{}, fmt.Errorf("must_capture: %w", err)
	}
	if s.MustCapture, err = mcNode.AsBool(); err != nil {
		return Snapshot{}, fmt.Errorf("must_capture: %w", err)
	}
	return s, nil
}

func pieceFromNode(node ipld.Node) (*Piece, error) {
	if node.IsNull() {
		return nil, nil
	}
	c, err := colorField(node, "color")
	if err != nil {
		return nil, err
	}
	kingNode, err := node.LookupByString("king")
	if err != nil {
		return nil, fmt.Errorf("king: %w", err)
	}
	king, err := kingNode.AsBool()
	if err != nil {
		return nil, fmt.Errorf("king: %w", err)
	}
	return &Piece{Color: c, King: king}, nil
}

func colorField(node ipld.Node, key string) (Color, error) {
	v, err := node.LookupByString(key)
	if err != nil {
		return NoColor, fmt.Errorf("%s: %w", key, err)
	}
	if v.IsNull() {
		return NoColor, nil
	}
	str, err := v.AsString()
	if err != nil {
		return NoColor, fmt.Errorf("%s: %w", key, err)
	}
	c, err := ParseColor(str)
	if err != nil {
		return NoColor, fmt.Errorf("%s: %w", key, err)
	}
	return c, nil
}

func squareFromNode(node ipld.Node) (Square, error) {
	if node.Kind() != ipld.Kind_List || node.Length() != 2 {
		return Square{}, fmt.Errorf("square must be a [row, col] list")
	}
	var coords [2]int
	for i := range coords {
		v, err := node.LookupByIndex(int64(i))
		if err != nil {
			return Square{}, err
		}
		n, err := v.AsInt()
		if err != nil {
			return Square{}, err
		}
		coords[i] = int(n)
	}
	return Square{Row: coords[0], Col: coords[1]}, nil
}
