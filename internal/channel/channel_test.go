package channel

import "testing"

func TestBufferedAbsorbsBurst(t *testing.T) {
	ch := New[int](4)

	// A full milestone burst fits in the buffer without a consumer.
	for i := 0; i < 4; i++ {
		ch.Send(i)
	}
	if ch.Len() != 4 {
		t.Fatalf("expected 4 buffered updates, got %d", ch.Len())
	}

	for want := 0; want < 4; want++ {
		got := <-ch.Receive()
		if got != want {
			t.Errorf("received %d, want %d", got, want)
		}
	}

	ch.Close()
	if _, ok := <-ch.Receive(); ok {
		t.Error("expected closed stream")
	}
}
