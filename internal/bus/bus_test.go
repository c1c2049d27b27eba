package bus

import "testing"

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(EventUploadCompleted)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case evt := <-ch:
			if evt != EventUploadCompleted {
				t.Fatalf("subscriber %d got %q", i, evt)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := New()
	_, cancel := b.Subscribe()
	defer cancel()

	// Overfill the buffer; Publish must not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		b.Publish(EventUploadCompleted)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe()
	cancel()
	cancel() // double cancel is safe

	b.Publish(EventLoggedOut)
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}
