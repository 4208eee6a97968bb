package engine

import (
	"os"
	"testing"

	"github.com/gavlegoat/chess/internal/board"
)

func TestMain(m *testing.M) {
	board.Initialize(nil)
	os.Exit(m.Run())
}
