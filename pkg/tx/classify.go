package tx

import (
	"fmt"
	"math/big"
	"strconv"
)

// Kind is the normalized classification of a contract write, used by
// the dashboard to pick icons and copy.
type Kind string

const (
	KindSwap            Kind = "swap"
	KindAddLiquidity    Kind = "addLiquidity"
	KindRemoveLiquidity Kind = "removeLiquidity"
	KindCreatePool      Kind = "createPool"
	KindSend            Kind = "send"
)

// Classification carries the display-oriented fields derived from an
// operation's positional arguments.
type Classification struct {
	Kind    Kind
	Amount  string
	Token   string
	ToToken string
}

const noArg = -1

// argSpec declares which positional arguments of an operation carry
// display-relevant meaning.
type argSpec struct {
	kind       Kind
	tokenPos   int
	toTokenPos int
	amountPos  int
}

var opSpecs = map[string]argSpec{
	"swap":            {kind: KindSwap, tokenPos: 0, toTokenPos: 1, amountPos: 2},
	"addLiquidity":    {kind: KindAddLiquidity, tokenPos: 0, toTokenPos: 1, amountPos: 2},
	"removeLiquidity": {kind: KindRemoveLiquidity, tokenPos: 0, toTokenPos: 1, amountPos: 2},
	"createPool":      {kind: KindCreatePool, tokenPos: 0, toTokenPos: 1, amountPos: noArg},
	"transfer":        {kind: KindSend, tokenPos: noArg, toTokenPos: noArg, amountPos: noArg},
	"transferFrom":    {kind: KindSend, tokenPos: noArg, toTokenPos: noArg, amountPos: noArg},
}

// Classify maps an operation name and its positional arguments to a
// Classification. Unrecognized operations classify as "send". Argument
// positions past the end of args are ignored, so addLiquidity without
// a quantity argument yields no amount.
func Classify(operation string, args []any) Classification {
	spec, ok := opSpecs[operation]
	if !ok {
		return Classification{Kind: KindSend}
	}

	class := Classification{Kind: spec.kind}
	if v, ok := argAt(args, spec.tokenPos); ok {
		class.Token = argString(v)
	}
	if v, ok := argAt(args, spec.toTokenPos); ok {
		class.ToToken = argString(v)
	}
	if v, ok := argAt(args, spec.amountPos); ok {
		class.Amount = argString(v)
	}
	return class
}

// KindFor resolves the kind for an operation name alone.
func KindFor(operation string) Kind {
	spec, ok := opSpecs[operation]
	if !ok {
		return KindSend
	}
	return spec.kind
}

func argAt(args []any, pos int) (any, bool) {
	if pos == noArg || pos >= len(args) || args[pos] == nil {
		return nil, false
	}
	return args[pos], true
}

// argString renders an argument in its canonical string form. Big
// integers keep their full decimal representation.
func argString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *big.Int:
		return x.String()
	case big.Int:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
