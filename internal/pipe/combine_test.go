package pipe_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/imgsearch/internal/pipe"
	"github.com/custodia-labs/imgsearch/internal/pipe/pipetest"
)

func sum(a, b, c int) string {
	return strconv.Itoa(a + b + c)
}

func newInputs() (*pipe.Source[int], *pipe.Source[int], *pipe.Source[int]) {
	return pipe.NewSource[int](), pipe.NewSource[int](), pipe.NewSource[int]()
}

func TestCombine3_EmitsNothingUntilAllInputsHaveValues(t *testing.T) {
	a, b, c := newInputs()
	tester := pipetest.Observe(t, pipe.Combine3(a.Pipe(), b.Pipe(), c.Pipe(), sum))

	a.MustPush(1)
	b.MustPush(2)

	tester.AssertEmpty(t)
}

func TestCombine3_Combines(t *testing.T) {
	a, b, c := newInputs()
	tester := pipetest.Observe(t, pipe.Combine3(a.Pipe(), b.Pipe(), c.Pipe(), sum))

	a.MustPush(1)
	b.MustPush(2)
	c.MustPush(3)

	tester.AssertValues(t, "6")
}

func TestCombine3_ReactsToEveryUpdate(t *testing.T) {
	a, b, c := newInputs()
	tester := pipetest.Observe(t, pipe.Combine3(a.Pipe(), b.Pipe(), c.Pipe(), sum))

	a.MustPush(1)
	b.MustPush(2)
	c.MustPush(3)

	c.MustPush(0)
	b.MustPush(0)
	a.MustPush(0)

	tester.AssertValues(t, "6", "3", "1", "0")
}

func TestCombine3_DoesNotDeduplicate(t *testing.T) {
	a, b, c := newInputs()
	tester := pipetest.Observe(t, pipe.Combine3(a.Pipe(), b.Pipe(), c.Pipe(), sum))

	a.MustPush(1)
	b.MustPush(1)
	c.MustPush(1)
	c.MustPush(1)

	tester.AssertValues(t, "3", "3")
}

func TestCombine3_UsesReplayedInputs(t *testing.T) {
	a, b, c := newInputs()
	a.MustPush(1)
	b.MustPush(2)
	c.MustPush(3)

	tester := pipetest.Observe(t, pipe.Combine3(a.Pipe(), b.Pipe(), c.Pipe(), sum))

	tester.AssertValues(t, "6")
}

func TestCombine3_ReplaysLatestCombinedValue(t *testing.T) {
	a, b, c := newInputs()
	combined := pipe.Combine3(a.Pipe(), b.Pipe(), c.Pipe(), sum)
	a.MustPush(1)
	b.MustPush(1)
	c.MustPush(1)

	late := pipetest.Observe(t, combined)

	late.AssertValues(t, "3")
}

func TestCombine3_MixedTypes(t *testing.T) {
	name := pipe.NewSourceWith("images")
	loading := pipe.NewSourceWith(false)
	count := pipe.NewSourceWith(0)

	tester := pipetest.Observe(t, pipe.Combine3(name.Pipe(), loading.Pipe(), count.Pipe(),
		func(n string, l bool, c int) string {
			return n + ":" + strconv.FormatBool(l) + ":" + strconv.Itoa(c)
		}))

	loading.MustPush(true)

	tester.AssertValues(t, "images:false:0", "images:true:0")
}

func TestCombined_CloseDetachesFromInputs(t *testing.T) {
	a, b, c := newInputs()
	combined := pipe.NewCombined3(a.Pipe(), b.Pipe(), c.Pipe(), sum)
	tester := pipetest.Observe(t, combined.Pipe())

	a.MustPush(1)
	b.MustPush(1)
	c.MustPush(1)
	combined.Close()
	a.MustPush(5)

	tester.AssertValues(t, "3")
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, c.Len())
}

func TestCombine3_NilMapperPanics(t *testing.T) {
	a, b, c := newInputs()
	require.Panics(t, func() {
		pipe.Combine3[int, int, int, string](a.Pipe(), b.Pipe(), c.Pipe(), nil)
	})
}
