package board

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	Initialize(nil)
	os.Exit(m.Run())
}
