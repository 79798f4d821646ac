package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterSubscribePublish(t *testing.T) {
	b := NewBroadcaster()

	id1, ch1 := b.Subscribe()
	id2, ch2 := b.Subscribe()
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, b.ClientCount())

	b.CoursePublished("course-1", "Intro to Go")

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, "course.published", event.Type)
			assert.Equal(t, "course-1", event.CourseID)
			assert.Contains(t, event.Message, "Intro to Go")
		default:
			t.Fatal("expected a buffered event")
		}
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.ClientCount())

	// A second unsubscribe is a no-op.
	b.Unsubscribe(id)
}

func TestBroadcasterDropsWhenBufferFull(t *testing.T) {
	b := NewBroadcaster()

	_, ch := b.Subscribe()
	for i := 0; i < 40; i++ {
		b.Publish(Event{Type: "ping"})
	}

	// The buffer holds 32; the rest were dropped rather than blocking.
	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 32, received)
}

func TestEventEncode(t *testing.T) {
	e := Event{Type: "course.published", Message: "hello", CourseID: "c1"}
	encoded := e.Encode()
	require.Contains(t, encoded, `"type":"course.published"`)
	require.Contains(t, encoded, `"courseId":"c1"`)
}
