package identity

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
)

type fakeReader struct {
	rows [][]string
	err  error

	gotRange string
}

func (f *fakeReader) Get(_ context.Context, a1Range string) ([][]string, error) {
	f.gotRange = a1Range
	return f.rows, f.err
}

func TestResolveFirstMatchWins(t *testing.T) {
	reader := &fakeReader{rows: [][]string{
		{"Ana", "12", "U1"},
		{"Bruno", "7", "U2"},
		{"Ana Velha", "99", "U1"},
	}}
	resolver, err := NewResolver(reader, "")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), "U1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Name != "Ana" || got.ContainerID != "12" {
		t.Fatalf("Resolve(U1) = %+v, want Ana/12", got)
	}
	if reader.gotRange != "usuarios!A2:C" {
		t.Fatalf("lookup range = %q, want default", reader.gotRange)
	}
}

func TestResolveUnknownActorYieldsSentinel(t *testing.T) {
	reader := &fakeReader{rows: [][]string{{"Ana", "12", "U1"}}}
	resolver, err := NewResolver(reader, "usuarios!A2:C")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), "U404")
	if err != nil {
		t.Fatalf("unknown actors must not fail resolution: %v", err)
	}
	if got.Name != Unknown || got.ContainerID != Unknown {
		t.Fatalf("Resolve(U404) = %+v, want sentinel {-,-}", got)
	}
}

func TestResolveSkipsShortRows(t *testing.T) {
	reader := &fakeReader{rows: [][]string{
		{"Ana"},
		{"Bruno", "7"},
		{"Carla", "3", "U3"},
	}}
	resolver, err := NewResolver(reader, "")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), "U3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Name != "Carla" || got.ContainerID != "3" {
		t.Fatalf("Resolve(U3) = %+v, want Carla/3", got)
	}
}

func TestResolvePropagatesReadFailure(t *testing.T) {
	reader := &fakeReader{err: errors.New("network down")}
	resolver, err := NewResolver(reader, "")
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	_, err = resolver.Resolve(context.Background(), "U1")
	if err == nil {
		t.Fatal("expected read failure to propagate")
	}
	if !pkgerrors.Is(err, pkgerrors.CodeTransport) {
		t.Fatalf("expected transport error code, got %v", pkgerrors.CodeOf(err))
	}
}

func TestNewResolverRequiresReader(t *testing.T) {
	if _, err := NewResolver(nil, ""); err == nil {
		t.Fatal("expected nil reader to be rejected")
	}
}
