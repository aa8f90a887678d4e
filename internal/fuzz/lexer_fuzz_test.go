package fuzztests

import (
	"testing"

	"github.com/woupiestek/rlox/internal/diag"
	"github.com/woupiestek/rlox/internal/lexer"
	"github.com/woupiestek/rlox/internal/source"
	"github.com/woupiestek/rlox/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		input = clampFuzzInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.lox", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: &lexer.BagAdapter{Bag: bag}})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}

func clampFuzzInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
