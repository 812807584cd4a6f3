package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/desk/broker"
)

func TestFired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		side  broker.Side
		level float64
		price float64
		want  bool
	}{
		{"long_below", broker.Long, 1.09600, 1.09599, false},
		{"long_exact", broker.Long, 1.09600, 1.09600, true},
		{"long_above", broker.Long, 1.09600, 1.09650, true},
		{"short_above", broker.Short, 1.09600, 1.09601, false},
		{"short_exact", broker.Short, 1.09600, 1.09600, true},
		{"short_below", broker.Short, 1.09600, 1.09550, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Fired(tt.side, tt.level, tt.price))
		})
	}
}
