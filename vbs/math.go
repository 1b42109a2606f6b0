package vbs

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
)

func init() {
	register("Abs", 1, 1, numeric(math.Abs))
	register("Int", 1, 1, numeric(math.Floor))
	register("Fix", 1, 1, numeric(math.Trunc))
	register("Sgn", 1, 1, mathSgn)
	register("Sqr", 1, 1, domain(math.Sqrt, func(f float64) bool { return f >= 0 }))
	register("Log", 1, 1, domain(math.Log, func(f float64) bool { return f > 0 }))
	register("Exp", 1, 1, mathExp)
	register("Atn", 1, 1, numeric(math.Atan))
	register("Cos", 1, 1, numeric(math.Cos))
	register("Sin", 1, 1, numeric(math.Sin))
	register("Tan", 1, 1, numeric(math.Tan))
	register("Round", 1, 2, mathRound)
	register("Rnd", 0, 1, mathRnd)
	register("Randomize", 0, 1, mathRandomize)
	register("Hex", 1, 1, radix(16))
	register("Oct", 1, 1, radix(8))
}

// numeric lifts fn to a function of one number. Null propagates.
func numeric(fn func(float64) float64) Impl {
	return func(args []any) (any, error) {
		if isNull(args[0]) {
			return Null, nil
		}
		f, err := ToFloat(args[0])
		if err != nil {
			return nil, err
		}
		return number(fn(f)), nil
	}
}

// domain is numeric with an argument check.
func domain(fn func(float64) float64, valid func(float64) bool) Impl {
	return func(args []any) (any, error) {
		if isNull(args[0]) {
			return Null, nil
		}
		f, err := ToFloat(args[0])
		if err != nil {
			return nil, err
		}
		if !valid(f) {
			return nil, NewFault(ErrIllegalCall, "")
		}
		return number(fn(f)), nil
	}
}

func mathSgn(args []any) (any, error) {
	f, err := ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	switch {
	case f > 0:
		return int64(1), nil
	case f < 0:
		return int64(-1), nil
	}
	return int64(0), nil
}

func mathExp(args []any) (any, error) {
	f, err := ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	r := math.Exp(f)
	if math.IsInf(r, 0) {
		return nil, NewFault(ErrOverflow, "")
	}
	return r, nil
}

// mathRound rounds half to even, as VBScript does.
func mathRound(args []any) (any, error) {
	f, err := ToFloat(args[0])
	if err != nil {
		return nil, err
	}
	digits, err := ToInt(arg(args, 1, 0), 32)
	if err != nil {
		return nil, err
	}
	if digits < 0 {
		return nil, NewFault(ErrIllegalCall, "")
	}
	scale := math.Pow(10, float64(digits))
	return number(math.RoundToEven(f*scale) / scale), nil
}

// rng backs Rnd and Randomize. Scripts share one sequence per process.
var rng = struct {
	sync.Mutex
	src  *rand.Rand
	last float64
}{src: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}

// mathRnd implements Rnd([n]): a negative n reseeds with n, zero repeats
// the last value and anything else draws the next one.
func mathRnd(args []any) (any, error) {
	n := 1.0
	if v := arg(args, 0, nil); v != nil {
		var err error
		if n, err = ToFloat(v); err != nil {
			return nil, err
		}
	}
	rng.Lock()
	defer rng.Unlock()
	switch {
	case n < 0:
		seed := math.Float64bits(n)
		rng.src = rand.New(rand.NewPCG(seed, seed))
	case n == 0:
		return rng.last, nil
	}
	rng.last = rng.src.Float64()
	return rng.last, nil
}

func mathRandomize(args []any) (any, error) {
	seed := rand.Uint64()
	if v := arg(args, 0, nil); v != nil {
		f, err := ToFloat(v)
		if err != nil {
			return nil, err
		}
		seed = math.Float64bits(f)
	}
	rng.Lock()
	defer rng.Unlock()
	rng.src = rand.New(rand.NewPCG(seed, seed))
	return nil, nil
}

// radix formats a rounded number in base. Negative numbers print as their
// 32-bit two's complement.
func radix(base int) Impl {
	return func(args []any) (any, error) {
		if isNull(args[0]) {
			return Null, nil
		}
		n, err := ToInt(args[0], 32)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(strconv.FormatUint(uint64(uint32(n)), base)), nil
	}
}
