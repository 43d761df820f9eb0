package health

import (
	"context"
	"errors"
	"testing"

	"github.com/farm2bag/voicecart/internal/catalog"
)

func TestCatalogChecker(t *testing.T) {
	holder := catalog.NewHolder(nil)
	check := CatalogChecker(holder)

	if err := check.Check(context.Background()); !errors.Is(err, catalog.ErrNotLoaded) {
		t.Errorf("empty holder check error = %v, want ErrNotLoaded", err)
	}

	idx := catalog.Build([]catalog.Entry{
		{CanonicalName: "Tomato", Unit: "kg", PricePerUnit: 40},
	})
	holder.Swap(idx)

	if err := check.Check(context.Background()); err != nil {
		t.Errorf("loaded holder check error = %v, want nil", err)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestDatabaseChecker(t *testing.T) {
	if err := DatabaseChecker(fakePinger{}).Check(context.Background()); err != nil {
		t.Errorf("healthy pinger check error = %v, want nil", err)
	}

	want := errors.New("connection refused")
	if err := DatabaseChecker(fakePinger{err: want}).Check(context.Background()); !errors.Is(err, want) {
		t.Errorf("failing pinger check error = %v, want %v", err, want)
	}
}
