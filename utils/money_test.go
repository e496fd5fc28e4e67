package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{45.99, "45,99 €"},
		{0, "0,00 €"},
		{5.5, "5,50 €"},
		{1245.5, "1 245,50 €"},
		{1000000, "1 000 000,00 €"},
		{-12.3, "-12,30 €"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEUR(tt.amount))
		})
	}
}
