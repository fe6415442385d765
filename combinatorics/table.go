// Package combinatorics provides the factorial, binomial, ladder-operator and
// Wigner-coefficient tables that feed the Wigner D-matrix recursions.
//
// A [Table] is a caller-owned (or process-scoped, see [Default]) cache. Reads
// go through an immutable [Snapshot] loaded atomically; requests beyond the
// current capacity build a larger snapshot and swap it in. Snapshots are
// never mutated after publication, so concurrent readers never observe a
// partially extended table. Every entry depends only on its index, never on
// the order in which capacity was requested.
package combinatorics

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/moble/SphericalFunctions/internal/numerr"
)

// Table limits
const (
	// MaxEll is the largest degree the tables support. Binomials are stored
	// up to n = 2*MaxEll, which keeps every entry finite in float64.
	MaxEll = 500

	// MaxFactorial is the largest n for which n! is finite in float64.
	MaxFactorial = 170

	// DefaultEll is the initial capacity of the process-scoped table.
	DefaultEll = 32
)

// Snapshot is an immutable set of tables covering degrees 0..EllMax().
//
// Accessors on Snapshot do not check their arguments; use the [Table]
// methods for validated access.
type Snapshot struct {
	ellMax     int
	factorials []float64 // n = 0..min(2*ellMax, MaxFactorial)
	binomials  []float64 // n = 0..2*ellMax, index n(n+1)/2 + k
	ladder     []float64 // ell = 0..ellMax, index ell² + ell + m
}

// EllMax returns the largest degree covered by the snapshot.
func (s *Snapshot) EllMax() int {
	return s.ellMax
}

// Factorial returns n! for 0 <= n <= min(2*EllMax(), MaxFactorial).
func (s *Snapshot) Factorial(n int) float64 {
	return s.factorials[n]
}

// Binomial returns C(n, k) for 0 <= k <= n <= 2*EllMax().
func (s *Snapshot) Binomial(n, k int) float64 {
	return s.binomials[n*(n+1)/2+k]
}

// LadderFactor returns sqrt(ell(ell+1) - m(m+1)) for |m| <= ell <= EllMax().
func (s *Snapshot) LadderFactor(ell, m int) float64 {
	return s.ladder[ell*ell+ell+m]
}

// WignerCoefficient returns sqrt((ell+m)!(ell-m)! / ((ell+mp)!(ell-mp)!)),
// evaluated as a ratio of central-row binomials so it stays finite for every
// supported degree.
func (s *Snapshot) WignerCoefficient(ell, mp, m int) float64 {
	return math.Sqrt(s.Binomial(2*ell, ell+mp) / s.Binomial(2*ell, ell+m))
}

// Table is a lazily extended combinatorial cache, safe for concurrent use.
type Table struct {
	mu   sync.Mutex // serializes growth; readers never take it
	snap atomic.Pointer[Snapshot]
}

// NewTable returns a table pre-built for degrees up to ellMax.
func NewTable(ellMax int) (*Table, error) {
	if err := checkEll(ellMax); err != nil {
		return nil, err
	}
	t := &Table{}
	t.snap.Store(buildSnapshot(ellMax, nil))
	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t := &Table{}
	t.snap.Store(buildSnapshot(DefaultEll, nil))
	return t
})

// Default returns the process-scoped table shared by evaluators that are not
// given one explicitly.
func Default() *Table {
	return defaultTable()
}

// Snapshot returns the current immutable snapshot.
func (t *Table) Snapshot() *Snapshot {
	return t.snap.Load()
}

// EllMax returns the current degree capacity.
func (t *Table) EllMax() int {
	return t.snap.Load().ellMax
}

// EnsureEll grows the table, if needed, so it covers degree ellMax and
// returns a snapshot that does. Growth never shrinks the table.
func (t *Table) EnsureEll(ellMax int) (*Snapshot, error) {
	if err := checkEll(ellMax); err != nil {
		return nil, err
	}
	if s := t.snap.Load(); s.ellMax >= ellMax {
		return s, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Another writer may have grown the table while we waited.
	prev := t.snap.Load()
	if prev.ellMax >= ellMax {
		return prev, nil
	}
	next := buildSnapshot(ellMax, prev)
	t.snap.Store(next)
	return next, nil
}

// Factorial returns n!.
// It fails with ErrDomain for negative n and for n > MaxFactorial, where n!
// overflows float64.
func (t *Table) Factorial(n int) (float64, error) {
	if n < 0 {
		return 0, numerr.Domainf("factorial of negative n=%d", n)
	}
	if n > MaxFactorial {
		return 0, numerr.Domainf("factorial of n=%d overflows float64 (max %d)", n, MaxFactorial)
	}
	s, err := t.EnsureEll(ellForN(n))
	if err != nil {
		return 0, err
	}
	return s.Factorial(n), nil
}

// Binomial returns the binomial coefficient C(n, k).
// It fails with ErrDomain if n or k is negative, k > n, or n > 2*MaxEll.
func (t *Table) Binomial(n, k int) (float64, error) {
	if n < 0 || k < 0 {
		return 0, numerr.Domainf("binomial C(%d, %d) with negative argument", n, k)
	}
	if k > n {
		return 0, numerr.Domainf("binomial C(%d, %d) with k > n", n, k)
	}
	if n > 2*MaxEll {
		return 0, numerr.Domainf("binomial C(%d, %d) beyond table limit n=%d", n, k, 2*MaxEll)
	}
	s, err := t.EnsureEll(ellForN(n))
	if err != nil {
		return 0, err
	}
	return s.Binomial(n, k), nil
}

// LadderFactor returns sqrt(ell(ell+1) - m(m+1)), the coefficient of the
// angular-momentum raising operator acting on |ell, m>.
func (t *Table) LadderFactor(ell, m int) (float64, error) {
	if ell < 0 || m < -ell || m > ell {
		return 0, numerr.Domainf("ladder factor needs |m| <= ell, got ell=%d m=%d", ell, m)
	}
	s, err := t.EnsureEll(ell)
	if err != nil {
		return 0, err
	}
	return s.LadderFactor(ell, m), nil
}

// WignerCoefficient returns sqrt((ell+m)!(ell-m)! / ((ell+mp)!(ell-mp)!)).
func (t *Table) WignerCoefficient(ell, mp, m int) (float64, error) {
	if ell < 0 || mp < -ell || mp > ell || m < -ell || m > ell {
		return 0, numerr.Domainf("wigner coefficient needs |mp|, |m| <= ell, got ell=%d mp=%d m=%d", ell, mp, m)
	}
	s, err := t.EnsureEll(ell)
	if err != nil {
		return 0, err
	}
	return s.WignerCoefficient(ell, mp, m), nil
}

func checkEll(ellMax int) error {
	if ellMax < 0 {
		return numerr.Domainf("negative degree %d", ellMax)
	}
	if ellMax > MaxEll {
		return numerr.Domainf("degree %d exceeds supported maximum %d", ellMax, MaxEll)
	}
	return nil
}

// ellForN returns the smallest degree whose binomial rows include n.
func ellForN(n int) int {
	return (n + 1) / 2
}

// buildSnapshot returns tables covering ellMax, reusing the entries of prev.
// Entries are produced by the same recurrences whether or not prev is given,
// so the result depends only on ellMax.
func buildSnapshot(ellMax int, prev *Snapshot) *Snapshot {
	nMax := 2 * ellMax
	s := &Snapshot{
		ellMax:     ellMax,
		factorials: make([]float64, min(nMax, MaxFactorial)+1),
		binomials:  make([]float64, (nMax+1)*(nMax+2)/2),
		ladder:     make([]float64, (ellMax+1)*(ellMax+1)),
	}

	// Factorials by running product
	start := 0
	if prev != nil {
		start = copy(s.factorials, prev.factorials)
	}
	for n := start; n < len(s.factorials); n++ {
		if n == 0 {
			s.factorials[0] = 1
			continue
		}
		s.factorials[n] = float64(n) * s.factorials[n-1]
	}

	// Binomials by Pascal's rule, one row at a time
	row := 0
	if prev != nil {
		copy(s.binomials, prev.binomials)
		row = 2*prev.ellMax + 1
	}
	for n := row; n <= nMax; n++ {
		base := n * (n + 1) / 2
		s.binomials[base] = 1
		s.binomials[base+n] = 1
		prevBase := (n - 1) * n / 2
		for k := 1; k < n; k++ {
			s.binomials[base+k] = s.binomials[prevBase+k-1] + s.binomials[prevBase+k]
		}
	}

	// Ladder factors
	ell := 0
	if prev != nil {
		copy(s.ladder, prev.ladder)
		ell = prev.ellMax + 1
	}
	for ; ell <= ellMax; ell++ {
		for m := -ell; m <= ell; m++ {
			s.ladder[ell*ell+ell+m] = math.Sqrt(float64(ell*(ell+1) - m*(m+1)))
		}
	}

	return s
}
