package walkforward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/tradebias/internal/catalog"
	"github.com/sawpanic/tradebias/internal/eval"
	"github.com/sawpanic/tradebias/internal/mapper"
	"github.com/sawpanic/tradebias/internal/metadata"
	"github.com/sawpanic/tradebias/internal/simulate"
)

func TestMethodRunAggregatesOutOfSampleAcrossFolds(t *testing.T) {
	reg := catalog.NewDefault()
	meta := metadata.NewDefault()
	m := mapper.New(reg, meta, 4)

	genome := make([]uint32, 32)
	for i := range genome {
		genome[i] = uint32(i*2654435761 + 7)
	}
	strategy := m.CreateStrategy(genome)

	builder := eval.NewBuilder(reg, eval.NewCache(eval.DefaultCacheCapacity))
	method := NewMethod(builder, simulate.DefaultConfig())

	frame := frameOfLen(120)
	report, err := method.Run(SlidingSplitter{NFolds: 3, InSamplePct: 0.7}, frame, strategy)
	require.NoError(t, err)

	assert.Len(t, report.Folds, 3)
	assert.NotEmpty(t, report.OutOfSampleStats)
	assert.GreaterOrEqual(t, report.Consistency, 0.0)
	assert.LessOrEqual(t, report.Consistency, 1.0)
}
