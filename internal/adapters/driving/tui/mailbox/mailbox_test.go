package mailbox

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_ReceivePosted(t *testing.T) {
	mb := New[string]()

	mb.Post("cats")
	v, ok := mb.Receive()

	assert.True(t, ok)
	assert.Equal(t, "cats", v)
}

func TestMailbox_KeepsNewestValue(t *testing.T) {
	mb := New[int]()

	mb.Post(1)
	mb.Post(2)
	mb.Post(3)
	v, ok := mb.Receive()

	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestMailbox_ReceiveBlocksUntilPost(t *testing.T) {
	mb := New[int]()
	got := make(chan int, 1)

	go func() {
		v, _ := mb.Receive()
		got <- v
	}()

	select {
	case <-got:
		t.Fatal("receive returned before post")
	case <-time.After(20 * time.Millisecond):
	}

	mb.Post(7)

	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("receive did not return after post")
	}
}

func TestMailbox_CloseWakesReceiver(t *testing.T) {
	mb := New[int]()
	done := make(chan bool, 1)

	go func() {
		_, ok := mb.Receive()
		done <- ok
	}()
	mb.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("receive did not return after close")
	}
}

func TestMailbox_PostAfterCloseIsIgnored(t *testing.T) {
	mb := New[int]()
	mb.Close()
	mb.Close()

	mb.Post(1)
	_, ok := mb.Receive()

	assert.False(t, ok)
}

func TestMailbox_ConcurrentPostersNeverBlock(t *testing.T) {
	mb := New[int]()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mb.Post(i)
		}()
	}
	wg.Wait()

	_, ok := mb.Receive()
	assert.True(t, ok)
}

func TestMailbox_CloseDropsPendingValue(t *testing.T) {
	mb := New[int]()
	mb.Post(1)

	mb.Close()
	_, ok := mb.Receive()

	assert.False(t, ok)
}
