package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	session "github.com/okian/passmap/internal/adapters/session"
	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func bump(s dashboard.Session) (dashboard.Session, error) {
	s.Seq++
	return s, nil
}

func TestLRUStore(t *testing.T) {
	Convey("Given a new store", t, func() {
		ctx := context.Background()
		store, err := session.NewLRUStore()
		So(err, ShouldBeNil)

		Convey("When a session is created", func() {
			id, err := store.Create(ctx, dashboard.Session{Seq: 5})

			Convey("Then it gets a uuid and can be read back", func() {
				So(err, ShouldBeNil)
				_, perr := uuid.Parse(id)
				So(perr, ShouldBeNil)
				got, err := store.Get(ctx, id)
				So(err, ShouldBeNil)
				So(got.Seq, ShouldEqual, uint64(5))
				So(store.Len(), ShouldEqual, 1)
			})

			Convey("Then Apply stores the result", func() {
				next, err := store.Apply(ctx, id, bump)
				So(err, ShouldBeNil)
				So(next.Seq, ShouldEqual, uint64(6))
				got, _ := store.Get(ctx, id)
				So(got.Seq, ShouldEqual, uint64(6))
			})

			Convey("Then a failing Apply leaves the session as is", func() {
				boom := errors.New("boom")
				cur, err := store.Apply(ctx, id, func(dashboard.Session) (dashboard.Session, error) {
					return dashboard.Session{Seq: 99}, boom
				})
				So(errors.Is(err, boom), ShouldBeTrue)
				So(cur.Seq, ShouldEqual, uint64(5))
				got, _ := store.Get(ctx, id)
				So(got.Seq, ShouldEqual, uint64(5))
			})

			Convey("Then Delete removes it once", func() {
				So(store.Delete(ctx, id), ShouldBeTrue)
				So(store.Delete(ctx, id), ShouldBeFalse)
				_, err := store.Get(ctx, id)
				So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an unknown id is used", func() {
			_, err := store.Apply(ctx, "missing", bump)
			So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			id, _ := store.Create(ctx, dashboard.Session{})
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.Apply(cctx, id, bump)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given a store bounded to two sessions", t, func() {
		ctx := context.Background()
		store, err := session.NewLRUStore(session.WithMaxSessions(2))
		So(err, ShouldBeNil)

		first, _ := store.Create(ctx, dashboard.Session{})
		second, _ := store.Create(ctx, dashboard.Session{})
		_, _ = store.Get(ctx, first)
		third, _ := store.Create(ctx, dashboard.Session{})

		Convey("Then the least recently used one is dropped", func() {
			So(store.Len(), ShouldEqual, 2)
			_, err := store.Get(ctx, second)
			So(errors.Is(err, session.ErrNotFound), ShouldBeTrue)
			_, err = store.Get(ctx, first)
			So(err, ShouldBeNil)
			_, err = store.Get(ctx, third)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given an invalid size", t, func() {
		_, err := session.NewLRUStore(session.WithMaxSessions(0))
		So(errors.Is(err, session.ErrInvalidSize), ShouldBeTrue)
	})
}

func TestStoreConcurrency(t *testing.T) {
	Convey("Given one session updated from many goroutines", t, func() {
		ctx := context.Background()
		store, _ := session.NewLRUStore(session.WithMaxSessions(1000))
		id, _ := store.Create(ctx, dashboard.Session{})

		const workers, perWorker = 10, 100
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					_, _ = store.Apply(ctx, id, bump)
					_, _ = store.Create(ctx, dashboard.Session{Seq: uint64(w*perWorker + j)})
				}
			}(i)
		}
		wg.Wait()

		Convey("Then no update is lost", func() {
			got, err := store.Get(ctx, id)
			So(err, ShouldBeNil)
			So(got.Seq, ShouldEqual, uint64(workers*perWorker))
			So(store.Len(), ShouldEqual, 1000)
		})
	})
}

func ExampleStore() {
	ctx := context.Background()
	store, _ := session.NewLRUStore(session.WithMaxSessions(4))
	id, _ := store.Create(ctx, dashboard.Session{})
	s, _ := store.Apply(ctx, id, bump)
	fmt.Println(s.Seq)
	// Output: 1
}
