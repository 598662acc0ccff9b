package str

import (
	"encoding/json"
	"math"

	"github.com/juju/errors"
)

// Hashcode java-style string hash
func Hashcode(s string) int32 {
	var hash int32 = 0
	for _, c := range s {
		hash = c + ((hash << 5) - hash)
	}
	return hash
}

// HashMode hashcode of s reduced modulo num, always in [0, num)
func HashMode(s string, num int32) int {
	hash := Hashcode(s)
	return int(math.Abs(float64(hash % num)))
}

// ConvertStrToStruct decodes a JSON document held in a string into v
func ConvertStrToStruct(s string, v any) error {
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return errors.Annotate(err, "unmarshal")
	}
	return nil
}
