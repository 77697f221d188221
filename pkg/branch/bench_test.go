package branch

import (
	"fmt"
	"testing"

	"github.com/odvcencio/gotref/pkg/repo"
)

func benchFixture(b *testing.B, branches int) *Collection {
	b.Helper()
	r, err := repo.Init(b.TempDir())
	if err != nil {
		b.Fatalf("Init: %v", err)
	}
	h, err := r.Commit("initial", "bench")
	if err != nil {
		b.Fatalf("Commit: %v", err)
	}
	for i := 0; i < branches; i++ {
		if _, err := r.CreateReference(fmt.Sprintf("refs/remotes/origin/topic-%03d", i), h, false); err != nil {
			b.Fatalf("CreateReference: %v", err)
		}
	}
	return New(r)
}

// BenchmarkLookupRemoteFallback measures a lookup that misses refs/heads and
// resolves on the second candidate.
func BenchmarkLookupRemoteFallback(b *testing.B) {
	c := benchFixture(b, 1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, err := c.Lookup(Name("origin/topic-000"))
		if err != nil || ref == nil {
			b.Fatalf("Lookup = %v, %v", ref, err)
		}
	}
}

func BenchmarkEachRemote(b *testing.B) {
	c := benchFixture(b, 200)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		err := c.EachName(FilterRemote, func(string) Action {
			n++
			return Continue
		})
		if err != nil {
			b.Fatalf("EachName: %v", err)
		}
		if n != 200 {
			b.Fatalf("visited %d, want 200", n)
		}
	}
}
