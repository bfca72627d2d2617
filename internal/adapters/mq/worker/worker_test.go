package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/cardiorisk/internal/adapters/mq/queue"
	"github.com/okian/cardiorisk/internal/adapters/mq/worker"
	"github.com/okian/cardiorisk/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	cases chan model.Case
}

func newMockQueue() *mockQueue {
	return &mockQueue{cases: make(chan model.Case, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Case { return mq.cases }
func (mq *mockQueue) Close() error                              { close(mq.cases); return nil }

type mockVerifier struct {
	mu     sync.Mutex
	errors map[string]error
	fail   map[string]bool
}

func newMockVerifier() *mockVerifier {
	return &mockVerifier{errors: map[string]error{}, fail: map[string]bool{}}
}

func (mv *mockVerifier) Verify(_ context.Context, c model.Case) (model.Verdict, error) {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	if err, ok := mv.errors[c.ID]; ok {
		return model.Verdict{}, err
	}
	if mv.fail[c.ID] {
		return model.Verdict{Case: c, Failures: []string{"out of range"}}, nil
	}
	return model.Verdict{Case: c, Passed: true}, nil
}

type collector struct {
	mu       sync.Mutex
	verdicts map[string]model.Verdict
}

func newCollector() *collector {
	return &collector{verdicts: map[string]model.Verdict{}}
}

func (c *collector) Record(_ context.Context, v model.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts[v.Case.ID] = v
}

func (c *collector) get(id string) (model.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.verdicts[id]
	return v, ok
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.verdicts)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a mock queue", t, func() {
		q := newMockQueue()
		v := newMockVerifier()
		sink := newCollector()
		w := worker.NewInMemoryWorker(q, v, sink, worker.WithName("test-worker"))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		convey.Convey("When cases are queued and the queue closes", func() {
			v.fail["bad"] = true
			v.errors["broken"] = errors.New("unknown score")
			for _, id := range []string{"good", "bad", "broken"} {
				q.cases <- model.Case{ID: id, Score: "MAGGIC"}
			}
			_ = q.Close()
			w.Run(ctx)

			convey.Convey("Then every case produces a verdict", func() {
				convey.So(sink.len(), convey.ShouldEqual, 3)

				good, _ := sink.get("good")
				convey.So(good.Passed, convey.ShouldBeTrue)

				bad, _ := sink.get("bad")
				convey.So(bad.Passed, convey.ShouldBeFalse)
				convey.So(bad.Failures, convey.ShouldResemble, []string{"out of range"})

				broken, ok := sink.get("broken")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(broken.Passed, convey.ShouldBeFalse)
				convey.So(broken.Case.ID, convey.ShouldEqual, "broken")
				convey.So(broken.Failures, convey.ShouldResemble, []string{"unknown score"})
			})
		})

		convey.Convey("When the worker is shut down while idle", func() {
			go w.Run(ctx)
			err := w.Shutdown(ctx)

			convey.Convey("Then it stops without error and tolerates a second call", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Shutdown(ctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a real queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		v := newMockVerifier()
		sink := newCollector()
		p := worker.NewPool(4, q, v, sink)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		convey.So(p.Size(), convey.ShouldEqual, 4)

		convey.Convey("When more cases than the queue holds are produced", func() {
			p.Start(ctx)
			const n = 100
			for i := 0; i < n; i++ {
				convey.So(q.EnqueueWait(ctx, model.Case{ID: fmt.Sprintf("case-%d", i), Score: "SMART"}), convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			err := p.Wait(ctx)

			convey.Convey("Then every case is verified once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sink.len(), convey.ShouldEqual, n)
				convey.So(p.Processed(), convey.ShouldEqual, int64(n))
			})
		})

		convey.Convey("When the pool is shut down", func() {
			p.Start(ctx)
			err := p.Shutdown(ctx)

			convey.Convey("Then the queue is closed and workers stop", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a pool is built without a worker count", func() {
			auto := worker.NewPool(0, q, v, sink)

			convey.Convey("Then it sizes itself from the CPU count", func() {
				convey.So(auto.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
