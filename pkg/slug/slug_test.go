package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Padaria São João", "padaria-sao-joao"},
		{"  Açougue & Cia. LTDA  ", "acougue-cia-ltda"},
		{"Sociedade Empresária Limitada", "sociedade-empresaria-limitada"},
		{"MCC 5411", "mcc-5411"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "transacoes do mes", Fold("  Transações   do MÊS "))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("padaria-sao-joao"))
	assert.False(t, Valid("Padaria"))
	assert.False(t, Valid(""))
}
