// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package value

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// maxExactInt is the largest magnitude below which every integer has an exact
// float64 representation.
const maxExactInt = 1 << 53

// number converts a JSON number literal to its value tree form. Integers
// outside the exact float64 range are kept as json.Number, everything else
// becomes float64.
func number(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return intNumber(i), nil
		}
		if _, ok := new(big.Int).SetString(s, 10); ok {
			return n, nil
		}
	}
	return n.Float64()
}

func intNumber(i int64) any {
	if i > -maxExactInt && i < maxExactInt {
		return float64(i)
	}
	return json.Number(strconv.FormatInt(i, 10))
}

func uintNumber(u uint64) any {
	if u < maxExactInt {
		return float64(u)
	}
	return json.Number(strconv.FormatUint(u, 10))
}

func rat(v any) *big.Rat {
	switch t := v.(type) {
	case float64:
		return new(big.Rat).SetFloat64(t)
	case json.Number:
		r, ok := new(big.Rat).SetString(t.String())
		if !ok {
			return nil
		}
		return r
	}
	return nil
}

// numberEqual reports whether a and b, both of kind Number, hold exactly the
// same numeric value.
func numberEqual(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af == bf
	}
	ar, br := rat(a), rat(b)
	if ar == nil || br == nil {
		return false
	}
	return ar.Cmp(br) == 0
}
